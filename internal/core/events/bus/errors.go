package bus

import "errors"

var ErrNilHandler = errors.New("bus: nil handler")
