package typegraph

import "strings"

// XML Schema built-in datatypes. A base naming one of these, under an xs or
// xsd prefix, ends a restriction chain instead of referencing another type.
var builtinDatatypes = map[string]bool{
	"anyType": true, "anySimpleType": true, "anyAtomicType": true,
	"string": true, "normalizedString": true, "token": true, "language": true,
	"Name": true, "NCName": true, "NMTOKEN": true, "NMTOKENS": true,
	"ID": true, "IDREF": true, "IDREFS": true, "ENTITY": true, "ENTITIES": true,
	"boolean": true, "decimal": true, "integer": true, "long": true, "int": true,
	"short": true, "byte": true, "nonNegativeInteger": true, "positiveInteger": true,
	"nonPositiveInteger": true, "negativeInteger": true, "unsignedLong": true,
	"unsignedInt": true, "unsignedShort": true, "unsignedByte": true,
	"float": true, "double": true, "duration": true, "dateTime": true, "time": true,
	"date": true, "gYearMonth": true, "gYear": true, "gMonthDay": true, "gDay": true,
	"gMonth": true, "hexBinary": true, "base64Binary": true, "anyURI": true,
	"QName": true, "NOTATION": true, "dateTimeStamp": true,
}

var builtinPrefixes = []string{"xs:", "xsd:"}

// splitBuiltin trims an xs or xsd prefix from ref and reports whether one was present.
func splitBuiltin(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	for _, prefix := range builtinPrefixes {
		if strings.HasPrefix(ref, prefix) {
			return ref[len(prefix):], true
		}
	}
	return ref, false
}

func isBuiltinDatatype(name string) bool { return builtinDatatypes[name] }

func isAnyType(name string) bool { return name == "anyType" || name == "anySimpleType" }
