package conflict

import "errors"

// ErrInternal возвращается при ошибке хранилища
var ErrInternal = errors.New("conflict: internal error")
