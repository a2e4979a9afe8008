/*
Package mapping converts typed records to storage attributes and back.

A Schema lists the persisted fields of a record type. Fields are bound with
typed accessors, so no reflection is used to read or write them:

	var EntitySchema = mapping.NewSchema("Entity", func() *EntityRecord { return &EntityRecord{} }).
	    PrimaryKey("cnes").
	    SecondaryKey("cap").
	    Bind(
	        mapping.Field("cnes", func(r *EntityRecord) *string { return &r.Cnes }, mapping.PrimaryKey()),
	        mapping.Field("cap", func(r *EntityRecord) *string { return &r.Cap }, mapping.SecondaryKey()),
	        mapping.Field("name", func(r *EntityRecord) *string { return &r.Name }),
	        mapping.Enum("status", func(r *EntityRecord) *Status { return &r.Status }, StatusNames),
	        mapping.Embedded("system", func(r *EntityRecord) **SystemInfo { return &r.System }, SystemSchema),
	    ).
	    MustBuild()

Binding kinds:
  - Field: a scalar mapped to one String or Number attribute
  - Enum: the constant's name as a String attribute
  - Embedded: a nested record as JSON object text
  - Collection: a slice of nested records as JSON array text
  - Nested: a nested record flattened into the parent's attributes

Scalar fields may be declared as string, int, int8, int16, int32, int64,
float32, float64, bool, *big.Float, atomic.Int32, atomic.Int64,
strfmt.DateTime, storagemodels.Value or any, or a pointer to one of these.
Conversion follows the declared type: a Number attribute read into a string
field yields its decimal text, bool fields accept "true" in any letter case
and read anything else as false.

A field holding the zero value of its type is absent and is not written.
Declare the field as a pointer when a zero must be stored.

Mapping never stops at a bad field. A field that fails to convert is left
unchanged, logged, and reported in the returned Diagnostics.
*/
package mapping
