package availability

import "errors"

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
