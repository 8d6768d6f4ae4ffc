package versionchain

// Validator provides an optional hook run after a version was unmarshalled.
// Returning an error turns the decode attempt into a failure, which lets a
// version reject payloads that merely look like it.
type Validator interface {
	Validate() error
}

// ApplyValidate calls Validator if implemented by v or *v. Plain errors are
// reported as a single validation issue.
func ApplyValidate[T any](v T) error {
	var err error
	if val, ok := any(v).(Validator); ok {
		err = val.Validate()
	} else if val, ok := any(&v).(Validator); ok {
		err = val.Validate()
	}
	if err == nil {
		return nil
	}
	if _, ok := AsIssues(err); ok {
		return err
	}
	return AppendIssues(nil, Issue{Path: "/", Code: CodeValidation, Message: err.Error(), Cause: err})
}
