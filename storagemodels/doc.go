/*
Package storagemodels defines the storage-neutral data exchanged between records and providers.

Key Types:

Value:
A tagged union holding either a string or a number. Numbers keep their decimal
text so values survive a provider round trip unchanged:

	storagemodels.String("Rio")
	storagemodels.Int(42)
	storagemodels.Float(1.5)
	v, err := storagemodels.NumberText("12345678901234567890.5")

Attributes:
An insertion-ordered attribute map produced by the mapper:

	attrs := storagemodels.NewAttributes()
	attrs.Set("cnes", storagemodels.String("1"))
	attrs.Set("cap", storagemodels.String("C1"))

Condition:
A predicate over a single attribute, handed to providers when filtering items:

	cond := storagemodels.Equals("cap", storagemodels.String("rio"))
	cond.Matches(item) // true when item["cap"] == "rio"

These types are shared by every provider implementation.
*/
package storagemodels
