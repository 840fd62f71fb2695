package classfile_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcf-sdk/classindex/pkg/classfile"
	"github.com/vcf-sdk/classindex/pkg/classfile/classfiletest"
	"github.com/vcf-sdk/classindex/pkg/testutil"
)

const xmlType = "Ljakarta/xml/bind/annotation/XmlType;"

func TestParse(t *testing.T) {
	cases := []struct {
		Name  string
		Class classfiletest.Class
		Want  classfile.ClassFile
	}{
		{
			Name:  "Plain",
			Class: classfiletest.Class{Name: "a.B"},
			Want: classfile.ClassFile{
				MajorVersion: 61,
				AccessFlags:  0x0021,
				Name:         "a/B",
				SuperName:    "java/lang/Object",
			},
		},
		{
			Name: "VisibleAndInvisible",
			Class: classfiletest.Class{
				Name:                 "com.vmware.vim25.AboutInfo",
				Super:                "com.vmware.vim25.DynamicData",
				Major:                55,
				Annotations:          []string{"jakarta.xml.bind.annotation.XmlAccessorType", "jakarta.xml.bind.annotation.XmlType"},
				InvisibleAnnotations: []string{"javax.annotation.processing.Generated"},
			},
			Want: classfile.ClassFile{
				MajorVersion: 55,
				AccessFlags:  0x0021,
				Name:         "com/vmware/vim25/AboutInfo",
				SuperName:    "com/vmware/vim25/DynamicData",
				Annotations: []classfile.Annotation{
					{Descriptor: "Ljakarta/xml/bind/annotation/XmlAccessorType;", Visible: true},
					{Descriptor: xmlType, Visible: true},
					{Descriptor: "Ljavax/annotation/processing/Generated;", Visible: false},
				},
			},
		},
		{
			Name: "ElementValues",
			Class: classfiletest.Class{
				Name:        "a.WithValues",
				Annotations: []string{"a.First", "jakarta.xml.bind.annotation.XmlType"},
				WithValues:  true,
			},
			Want: classfile.ClassFile{
				MajorVersion: 61,
				AccessFlags:  0x0021,
				Name:         "a/WithValues",
				SuperName:    "java/lang/Object",
				Annotations: []classfile.Annotation{
					{Descriptor: "La/First;", Visible: true},
					{Descriptor: xmlType, Visible: true},
				},
			},
		},
		{
			Name: "MemberAnnotationsIgnored",
			Class: classfiletest.Class{
				Name:              "a.Members",
				FieldAnnotations:  []string{"jakarta.xml.bind.annotation.XmlType"},
				MethodAnnotations: []string{"jakarta.xml.bind.annotation.XmlType"},
				WithValues:        true,
			},
			Want: classfile.ClassFile{
				MajorVersion: 61,
				AccessFlags:  0x0021,
				Name:         "a/Members",
				SuperName:    "java/lang/Object",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			have, err := classfile.Parse(tc.Class.Bytes())
			require.NoError(t, err)
			assert.Equal(t, tc.Want, *have)
		})
	}
}

func TestParseGolden(t *testing.T) {
	data := classfiletest.Class{
		Name:                 "com.vmware.vim25.VirtualMachineConfigSpec",
		Super:                "com.vmware.vim25.DynamicData",
		Annotations:          []string{"jakarta.xml.bind.annotation.XmlAccessorType", "jakarta.xml.bind.annotation.XmlType"},
		InvisibleAnnotations: []string{"javax.annotation.processing.Generated"},
		FieldAnnotations:     []string{"jakarta.xml.bind.annotation.XmlElement"},
		WithValues:           true,
	}.Bytes()

	cf, err := classfile.Parse(data)
	require.NoError(t, err)

	testutil.AssertGoldenJSON(t, "test-fixtures/VirtualMachineConfigSpec.json", cf)
}

func TestHasAnnotation(t *testing.T) {
	data := classfiletest.Class{
		Name:                 "a.B",
		InvisibleAnnotations: []string{"jakarta.xml.bind.annotation.XmlType"},
	}.Bytes()

	cf, err := classfile.Parse(data)
	require.NoError(t, err)

	assert.True(t, cf.HasAnnotation(xmlType))
	assert.False(t, cf.HasAnnotation("Ljakarta/xml/bind/annotation/XmlRootElement;"))
	assert.Equal(t, "a.B", cf.BinaryName())
}

func TestParseTruncated(t *testing.T) {
	data := classfiletest.Class{
		Name:        "a.B",
		Annotations: []string{"jakarta.xml.bind.annotation.XmlType"},
		WithValues:  true,
	}.Bytes()

	for n := 0; n < len(data); n++ {
		_, err := classfile.Parse(data[:n])
		require.Error(t, err, "length %d", n)

		var fe *classfile.FormatError
		require.True(t, errors.As(err, &fe), "length %d: %v", n, err)
		assert.LessOrEqual(t, fe.Offset, n)
	}
}

func TestParseInvalid(t *testing.T) {
	valid := classfiletest.Class{Name: "a.B"}.Bytes()

	cases := []struct {
		Name   string
		Mutate func([]byte) []byte
		Reason string
	}{
		{
			Name: "BadMagic",
			Mutate: func(b []byte) []byte {
				b[0] = 0xCA
				b[1] = 0xFE
				b[2] = 0xD0
				b[3] = 0x0D
				return b
			},
			Reason: "bad magic 0xCAFED00D",
		},
		{
			Name: "EmptyConstantPool",
			Mutate: func(b []byte) []byte {
				b[8] = 0
				b[9] = 0
				return b
			},
			Reason: "constant pool count must not be zero",
		},
		{
			Name: "UnknownConstantTag",
			Mutate: func(b []byte) []byte {
				b[10] = 2
				return b
			},
			Reason: "unknown constant pool tag 2 at index 1",
		},
		{
			Name: "Text",
			Mutate: func([]byte) []byte {
				return []byte("this is not a class file")
			},
			Reason: "bad magic 0x74686973",
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			data := append([]byte{}, valid...)
			_, err := classfile.Parse(tc.Mutate(data))

			var fe *classfile.FormatError
			require.True(t, errors.As(err, &fe), "%v", err)
			assert.Equal(t, tc.Reason, fe.Reason)
		})
	}
}

func TestDescriptor(t *testing.T) {
	cases := []struct {
		In, Want string
	}{
		{In: "jakarta.xml.bind.annotation.XmlType", Want: xmlType},
		{In: "jakarta/xml/bind/annotation/XmlType", Want: xmlType},
		{In: xmlType, Want: xmlType},
		{In: "  Log ", Want: "LLog;"},
		{In: "", Want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.In, func(t *testing.T) {
			assert.Equal(t, tc.Want, classfile.Descriptor(tc.In))
		})
	}

	assert.Equal(t, "jakarta.xml.bind.annotation.XmlType", classfile.TypeName(xmlType))
	assert.Equal(t, "I", classfile.TypeName("I"))
}
