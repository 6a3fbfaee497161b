package file

import "errors"

var (
	ErrNilFileHeader  = errors.New("file: nil file header")
	ErrInvalidPath    = errors.New("file: invalid path")
	ErrInvalidConfig  = errors.New("file: invalid configuration")
	ErrNotFound       = errors.New("file: not found")
	ErrNotAnImage     = errors.New("file: not an image")
	ErrSaveFailed     = errors.New("file: save failed")
	ErrDeleteFailed   = errors.New("file: delete failed")
	ErrAWSConfig      = errors.New("file: failed to load AWS config")
	ErrAccessDenied   = errors.New("file: access denied")
	ErrBucketNotFound = errors.New("file: bucket not found")
)
