package converters

const (
	ErrMsgEmptyString   = "String parameter cannot be empty."
	ErrMsgBadTimeFormat = "Bad time format, expected HH:MM or HHMM"
	ErrMsgBadDateFormat = "Bad date format, expected YYYYMMDD, YYYY-MM-DD or RFC 3339"
	ErrMsgBadInteger    = "Bad integer, expected digits optionally joined by '*'"
	ErrMsgNoEnumConst   = "No enum constant matches the given name"
	ErrMsgBadNumber     = "Bad number"
	ErrMsgBadLayout     = "Value does not match the layout"
	ErrMsgBadDocument   = "Bad document"
	ErrMsgReadFailed    = "Read failed"
	ErrMsgBadParameter  = "Bad parameter"
)
