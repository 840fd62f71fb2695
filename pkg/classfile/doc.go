// Package classfile reads the structure of compiled JVM class files.
//
// It is not a full bytecode library. Parse walks the constant pool and skips
// over fields and methods, so that the class level metadata can be inspected:
// the class name, the super class and the annotations that are declared on
// the class itself. Annotations on fields, methods or parameters are never
// reported.
//
//	cf, err := classfile.Parse(data)
//	if err != nil {
//	    return err
//	}
//
//	if cf.HasAnnotation(classfile.Descriptor("jakarta.xml.bind.annotation.XmlType")) {
//	    // ...
//	}
//
// Every read is bounds checked. Truncated or otherwise malformed input results
// in a *FormatError, which carries the offset at which parsing failed.
package classfile
