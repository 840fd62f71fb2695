package classfile

import "strings"

// Descriptor converts a fully qualified type name like
// "jakarta.xml.bind.annotation.XmlType" into its field descriptor
// "Ljakarta/xml/bind/annotation/XmlType;". Internal names with slashes are
// accepted as well and values that already are descriptors are returned
// unchanged.
func Descriptor(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	if strings.HasPrefix(name, "L") && strings.HasSuffix(name, ";") {
		return name
	}

	return "L" + strings.ReplaceAll(name, ".", "/") + ";"
}

// TypeName is the inverse of Descriptor. It returns the input unchanged, if
// it is no object type descriptor.
func TypeName(descriptor string) string {
	if !strings.HasPrefix(descriptor, "L") || !strings.HasSuffix(descriptor, ";") {
		return descriptor
	}

	inner := descriptor[1 : len(descriptor)-1]
	return strings.ReplaceAll(inner, "/", ".")
}
