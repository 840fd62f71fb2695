// Package classfiletest builds class files and JAR archives for tests.
package classfiletest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
)

// Class describes a class file to build. Type names may use dots or slashes.
type Class struct {
	Name  string
	Super string

	// Major defaults to 61 (Java 17).
	Major uint16

	Annotations          []string
	InvisibleAnnotations []string
	FieldAnnotations     []string
	MethodAnnotations    []string

	// WithValues adds element value pairs of every kind to each annotation,
	// including a nested annotation and eight byte constants.
	WithValues bool
}

// Entry is a single file in a JAR built by WriteJar.
type Entry struct {
	Name string
	Data []byte
}

// Dir returns a directory entry.
func Dir(name string) Entry {
	return Entry{Name: strings.TrimSuffix(name, "/") + "/"}
}

// ClassEntry returns the archive entry for the class, eg "a/B.class".
func ClassEntry(c Class) Entry {
	return Entry{
		Name: internal(c.Name) + ".class",
		Data: c.Bytes(),
	}
}

// WriteJar creates a JAR file at path containing the given entries in order.
func WriteJar(t testing.TB, path string, entries ...Entry) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			t.Fatal(err)
		}
		_, err = w.Write(e.Data)
		if err != nil {
			t.Fatal(err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

// Bytes encodes the class file.
func (c Class) Bytes() []byte {
	p := newPool()
	body := new(bytes.Buffer)

	super := c.Super
	if super == "" {
		super = "java/lang/Object"
	}

	put16(body, 0x0021) // ACC_PUBLIC | ACC_SUPER
	put16(body, p.class(internal(c.Name)))
	put16(body, p.class(internal(super)))
	put16(body, 0) // interfaces

	c.writeMember(body, p, "value", "Ljava/lang/String;", c.FieldAnnotations)
	c.writeMember(body, p, "<init>", "()V", c.MethodAnnotations)

	attributes := new(bytes.Buffer)
	count := uint16(0)

	// unrelated attributes must be skipped
	put16(attributes, p.utf8("SourceFile"))
	put32(attributes, 2)
	put16(attributes, p.utf8(simpleName(c.Name)+".java"))
	count++

	if len(c.Annotations) > 0 {
		c.writeAnnotations(attributes, p, "RuntimeVisibleAnnotations", c.Annotations)
		count++
	}
	if len(c.InvisibleAnnotations) > 0 {
		c.writeAnnotations(attributes, p, "RuntimeInvisibleAnnotations", c.InvisibleAnnotations)
		count++
	}

	put16(body, count)
	body.Write(attributes.Bytes())

	major := c.Major
	if major == 0 {
		major = 61
	}

	out := new(bytes.Buffer)
	put32(out, 0xCAFEBABE)
	put16(out, 0)
	put16(out, major)
	put16(out, p.count)
	out.Write(p.buf.Bytes())
	out.Write(body.Bytes())

	return out.Bytes()
}

func (c Class) writeMember(w *bytes.Buffer, p *pool, name, descriptor string, annotations []string) {
	if len(annotations) == 0 {
		put16(w, 0)
		return
	}

	put16(w, 1)
	put16(w, 0x0001)
	put16(w, p.utf8(name))
	put16(w, p.utf8(descriptor))
	put16(w, 1)
	c.writeAnnotations(w, p, "RuntimeVisibleAnnotations", annotations)
}

func (c Class) writeAnnotations(w *bytes.Buffer, p *pool, attribute string, names []string) {
	content := new(bytes.Buffer)
	put16(content, uint16(len(names)))
	for _, name := range names {
		c.writeAnnotation(content, p, name)
	}

	put16(w, p.utf8(attribute))
	put32(w, uint32(content.Len()))
	w.Write(content.Bytes())
}

func (c Class) writeAnnotation(w *bytes.Buffer, p *pool, name string) {
	put16(w, p.utf8(descriptor(name)))

	if !c.WithValues {
		put16(w, 0)
		return
	}

	put16(w, 7)

	put16(w, p.utf8("name"))
	w.WriteByte('s')
	put16(w, p.utf8(simpleName(c.Name)))

	put16(w, p.utf8("count"))
	w.WriteByte('J')
	put16(w, p.long(1<<40))

	put16(w, p.utf8("ratio"))
	w.WriteByte('D')
	put16(w, p.double(0.5))

	put16(w, p.utf8("kind"))
	w.WriteByte('e')
	put16(w, p.utf8("Ljakarta/xml/bind/annotation/XmlAccessType;"))
	put16(w, p.utf8("FIELD"))

	put16(w, p.utf8("type"))
	w.WriteByte('c')
	put16(w, p.utf8("Ljava/lang/Object;"))

	put16(w, p.utf8("nested"))
	w.WriteByte('@')
	put16(w, p.utf8("Lcom/example/Nested;"))
	put16(w, 1)
	put16(w, p.utf8("flag"))
	w.WriteByte('Z')
	put16(w, p.integer(1))

	put16(w, p.utf8("propOrder"))
	w.WriteByte('[')
	put16(w, 2)
	w.WriteByte('s')
	put16(w, p.utf8("first"))
	w.WriteByte('I')
	put16(w, p.integer(42))
}

type pool struct {
	buf   bytes.Buffer
	count uint16
	utf8s map[string]uint16
}

func newPool() *pool {
	return &pool{count: 1, utf8s: map[string]uint16{}}
}

func (p *pool) utf8(s string) uint16 {
	if idx, ok := p.utf8s[s]; ok {
		return idx
	}

	p.buf.WriteByte(1)
	put16(&p.buf, uint16(len(s)))
	p.buf.WriteString(s)

	idx := p.count
	p.count++
	p.utf8s[s] = idx
	return idx
}

func (p *pool) class(name string) uint16 {
	ref := p.utf8(name)
	p.buf.WriteByte(7)
	put16(&p.buf, ref)

	idx := p.count
	p.count++
	return idx
}

func (p *pool) integer(v int32) uint16 {
	p.buf.WriteByte(3)
	put32(&p.buf, uint32(v))

	idx := p.count
	p.count++
	return idx
}

func (p *pool) long(v int64) uint16 {
	p.buf.WriteByte(5)
	binary.Write(&p.buf, binary.BigEndian, v)

	idx := p.count
	p.count += 2
	return idx
}

func (p *pool) double(v float64) uint16 {
	p.buf.WriteByte(6)
	binary.Write(&p.buf, binary.BigEndian, v)

	idx := p.count
	p.count += 2
	return idx
}

func put16(w *bytes.Buffer, v uint16) {
	w.Write(binary.BigEndian.AppendUint16(nil, v))
}

func put32(w *bytes.Buffer, v uint32) {
	w.Write(binary.BigEndian.AppendUint32(nil, v))
}

func internal(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

func descriptor(name string) string {
	if strings.HasPrefix(name, "L") && strings.HasSuffix(name, ";") {
		return name
	}
	return "L" + internal(name) + ";"
}

func simpleName(name string) string {
	name = internal(name)
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
