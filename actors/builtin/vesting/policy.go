package vesting

// Maximum length of a schedule name, in bytes. Names are index keys, so unbounded
// names would let callers grow state without bound.
const ScheduleNameMaxLength = 256
