package memory

import "errors"

var ErrDuplicateRecord = errors.New("record already exists")
