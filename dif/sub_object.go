package dif

import "errors"

// ErrSubObjectUnsupported is returned if a sub-object list is ever
// non-empty; original_source/sub_object.rs never implemented this record
// either, and no MBG interior (this module's scope) carries any.
var ErrSubObjectUnsupported = errors.New("dif: sub-object records are not supported")

// SubObject is a placeholder: every field-level detail of this record is
// unknown upstream.
type SubObject struct{}
