package jarutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcf-sdk/classindex/pkg/classfile/classfiletest"
)

func TestArchive(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.jar")
	classfiletest.WriteJar(t, filename,
		classfiletest.Entry{Name: "META-INF/MANIFEST.MF", Data: []byte("Manifest-Version: 1.0\n")},
		classfiletest.Dir("com/example"),
		classfiletest.ClassEntry(classfiletest.Class{Name: "com.example.Foo"}),
		classfiletest.ClassEntry(classfiletest.Class{Name: "com.example.Foo$Bar"}),
		classfiletest.ClassEntry(classfiletest.Class{Name: "com.example.package-info"}),
		classfiletest.ClassEntry(classfiletest.Class{Name: "module-info"}),
	)

	archive, err := Open(filename)
	require.NoError(t, err)
	defer archive.Close()

	assert.Equal(t, filename, archive.Path())
	assert.Equal(t, 6, archive.Len())

	var names []string
	for e := range archive.Entries() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{
		"META-INF/MANIFEST.MF",
		"com/example/",
		"com/example/Foo.class",
		"com/example/Foo$Bar.class",
		"com/example/package-info.class",
		"module-info.class",
	}, names)

	var classes []string
	for e := range archive.Classes() {
		classes = append(classes, e.ClassName())

		data, err := e.ReadAll()
		require.NoError(t, err)
		assert.Equal(t, uint64(len(data)), e.Size())
	}
	assert.Equal(t, []string{"com.example.Foo", "com.example.Foo$Bar"}, classes)
}

func TestArchiveStopsIteration(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.jar")
	classfiletest.WriteJar(t, filename,
		classfiletest.ClassEntry(classfiletest.Class{Name: "a.A"}),
		classfiletest.ClassEntry(classfiletest.Class{Name: "a.B"}),
	)

	archive, err := Open(filename)
	require.NoError(t, err)
	defer archive.Close()

	count := 0
	for range archive.Classes() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestOpenInvalid(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.jar"))
	assert.Error(t, err)
}
