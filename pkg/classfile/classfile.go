package classfile

import (
	"slices"
	"strings"
)

const (
	// Magic is the first four bytes of every class file.
	Magic uint32 = 0xCAFEBABE

	attrVisibleAnnotations   = "RuntimeVisibleAnnotations"
	attrInvisibleAnnotations = "RuntimeInvisibleAnnotations"

	maxElementDepth = 64
)

const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// Annotation is a single annotation that is declared on the class.
type Annotation struct {
	// Descriptor is the field descriptor of the annotation type, eg
	// "Ljakarta/xml/bind/annotation/XmlType;".
	Descriptor string

	// Visible is true for annotations with runtime retention.
	Visible bool
}

// ClassFile contains the class level metadata of a parsed class file.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  uint16

	// Name and SuperName are internal names, eg "com/vmware/vim25/ManagedObjectReference".
	// SuperName is empty for java/lang/Object and module-info.
	Name      string
	SuperName string

	Annotations []Annotation
}

// HasAnnotation returns true, if the class declares an annotation with the
// given descriptor, regardless of its retention.
func (cf *ClassFile) HasAnnotation(descriptor string) bool {
	return slices.ContainsFunc(cf.Annotations, func(a Annotation) bool {
		return a.Descriptor == descriptor
	})
}

// BinaryName returns the class name with dots as package separators, eg
// "com.vmware.vim25.ManagedObjectReference".
func (cf *ClassFile) BinaryName() string {
	return strings.ReplaceAll(cf.Name, "/", ".")
}

type constant struct {
	tag  uint8
	utf8 string
	ref  uint16
}

type constantPool []constant

func (p constantPool) utf8(r *reader, index uint16) (string, error) {
	if int(index) <= 0 || int(index) >= len(p) || p[index].tag != tagUtf8 {
		return "", r.fail("constant pool index %d is not a Utf8 entry", index)
	}
	return p[index].utf8, nil
}

func (p constantPool) className(r *reader, index uint16) (string, error) {
	if int(index) <= 0 || int(index) >= len(p) || p[index].tag != tagClass {
		return "", r.fail("constant pool index %d is not a Class entry", index)
	}
	return p.utf8(r, p[index].ref)
}

// Parse decodes the class level structure of a class file.
func Parse(data []byte) (*ClassFile, error) {
	r := &reader{data: data}
	cf := new(ClassFile)

	magic, err := r.u4()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		r.pos = 0
		return nil, r.fail("bad magic 0x%08X", magic)
	}

	if cf.MinorVersion, err = r.u2(); err != nil {
		return nil, err
	}
	if cf.MajorVersion, err = r.u2(); err != nil {
		return nil, err
	}

	pool, err := readConstantPool(r)
	if err != nil {
		return nil, err
	}

	if cf.AccessFlags, err = r.u2(); err != nil {
		return nil, err
	}

	thisClass, err := r.u2()
	if err != nil {
		return nil, err
	}
	if cf.Name, err = pool.className(r, thisClass); err != nil {
		return nil, err
	}

	superClass, err := r.u2()
	if err != nil {
		return nil, err
	}
	if superClass != 0 {
		if cf.SuperName, err = pool.className(r, superClass); err != nil {
			return nil, err
		}
	}

	interfaces, err := r.u2()
	if err != nil {
		return nil, err
	}
	if err := r.skip(int(interfaces) * 2); err != nil {
		return nil, err
	}

	// fields and methods share the same layout
	for range 2 {
		if err := skipMembers(r); err != nil {
			return nil, err
		}
	}

	attributes, err := r.u2()
	if err != nil {
		return nil, err
	}

	for range attributes {
		nameIndex, err := r.u2()
		if err != nil {
			return nil, err
		}
		name, err := pool.utf8(r, nameIndex)
		if err != nil {
			return nil, err
		}

		length, err := r.u4()
		if err != nil {
			return nil, err
		}
		body, err := r.bytes(int(length))
		if err != nil {
			return nil, err
		}

		switch name {
		case attrVisibleAnnotations, attrInvisibleAnnotations:
			sub := &reader{data: r.data[:r.pos], pos: r.pos - len(body)}
			annotations, err := readAnnotations(sub, pool, name == attrVisibleAnnotations)
			if err != nil {
				return nil, err
			}
			cf.Annotations = append(cf.Annotations, annotations...)
		}
	}

	return cf, nil
}

func readConstantPool(r *reader) (constantPool, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, r.fail("constant pool count must not be zero")
	}

	pool := make(constantPool, count)
	for i := 1; i < int(count); i++ {
		tag, err := r.u1()
		if err != nil {
			return nil, err
		}

		c := constant{tag: tag}

		switch tag {
		case tagUtf8:
			length, err := r.u2()
			if err != nil {
				return nil, err
			}
			raw, err := r.bytes(int(length))
			if err != nil {
				return nil, err
			}
			c.utf8 = string(raw)

		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			if c.ref, err = r.u2(); err != nil {
				return nil, err
			}

		case tagMethodHandle:
			err = r.skip(3)

		case tagInteger, tagFloat, tagFieldref, tagMethodref, tagInterfaceMethodref,
			tagNameAndType, tagDynamic, tagInvokeDynamic:
			err = r.skip(4)

		case tagLong, tagDouble:
			err = r.skip(8)

		default:
			r.pos--
			return nil, r.fail("unknown constant pool tag %d at index %d", tag, i)
		}
		if err != nil {
			return nil, err
		}

		pool[i] = c

		if tag == tagLong || tag == tagDouble {
			// eight byte constants take two entries
			i++
		}
	}

	return pool, nil
}

func skipMembers(r *reader) error {
	count, err := r.u2()
	if err != nil {
		return err
	}

	for range count {
		// access_flags, name_index, descriptor_index
		if err := r.skip(6); err != nil {
			return err
		}
		if err := skipAttributes(r); err != nil {
			return err
		}
	}

	return nil
}

func skipAttributes(r *reader) error {
	count, err := r.u2()
	if err != nil {
		return err
	}

	for range count {
		if err := r.skip(2); err != nil {
			return err
		}
		length, err := r.u4()
		if err != nil {
			return err
		}
		if err := r.skip(int(length)); err != nil {
			return err
		}
	}

	return nil
}

func readAnnotations(r *reader, pool constantPool, visible bool) ([]Annotation, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}

	result := make([]Annotation, 0, count)
	for range count {
		descriptor, err := readAnnotation(r, pool, 0)
		if err != nil {
			return nil, err
		}
		result = append(result, Annotation{
			Descriptor: descriptor,
			Visible:    visible,
		})
	}

	return result, nil
}

func readAnnotation(r *reader, pool constantPool, depth int) (string, error) {
	typeIndex, err := r.u2()
	if err != nil {
		return "", err
	}
	descriptor, err := pool.utf8(r, typeIndex)
	if err != nil {
		return "", err
	}

	pairs, err := r.u2()
	if err != nil {
		return "", err
	}
	for range pairs {
		// element_name_index
		if err := r.skip(2); err != nil {
			return "", err
		}
		if err := skipElementValue(r, pool, depth+1); err != nil {
			return "", err
		}
	}

	return descriptor, nil
}

func skipElementValue(r *reader, pool constantPool, depth int) error {
	if depth > maxElementDepth {
		return r.fail("annotation values nested deeper than %d levels", maxElementDepth)
	}

	tag, err := r.u1()
	if err != nil {
		return err
	}

	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's', 'c':
		return r.skip(2)

	case 'e':
		return r.skip(4)

	case '@':
		_, err := readAnnotation(r, pool, depth)
		return err

	case '[':
		count, err := r.u2()
		if err != nil {
			return err
		}
		for range count {
			if err := skipElementValue(r, pool, depth+1); err != nil {
				return err
			}
		}
		return nil

	default:
		r.pos--
		return r.fail("unknown annotation element tag %q", tag)
	}
}
