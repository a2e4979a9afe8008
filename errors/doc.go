/*
Package errors provides the error taxonomy and semantic error types for activerecord.

Classified errors combine a source layer and a type, and encode as a three
digit code (one digit of source, two of type):

	err := errors.New(errors.DataAccess, errors.ResourceNotFound, "No Item")
	err.Code() // "411"

	decoded, parseErr := errors.ParseCode("418", "slow down")

Provider callbacks report integer codes, decoded with FromProvider. Providers
that fail with one of the semantic errors below report CodeOf(err).

Common Errors:

	var (
	    ErrNotFound        = errors.New("item not found")
	    ErrAlreadyExists   = errors.New("item already exists")
	    ErrInvalidInput    = errors.New("invalid input")
	    ErrConditionFailed = errors.New("condition check failed")
	)

Classified errors match these sentinels where the meaning overlaps, so both
of these hold for a ResourceNotFound error:

	errors.IsNotFound(err)
	stderrors.Is(err, errors.OfType(errors.ResourceNotFound))

Field mapping failures are reported as *FieldError values wrapping one of
ErrInvalidType, ErrUnsupportedType, ErrInvalidEnumValue or ErrMalformedJSON.
*/
package errors
