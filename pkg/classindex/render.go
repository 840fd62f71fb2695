package classindex

import (
	"bytes"
	"text/template"

	"github.com/pkg/errors"
)

const classTemplate = `// Automatically generated file
package {{ .Package }};

public class {{ .ClassName }} {
    public static Class<?>[] getClasses() {
        return new Class<?>[] {
{{ range .Classes }}            {{ . }}.class,
{{ end }}        };
    }
}
`

var renderer = template.Must(template.New("class").Parse(classTemplate))

// RenderOptions define the declaration of the generated class.
type RenderOptions struct {
	Package   string
	ClassName string
}

// Render creates the Java source for the given class names. The names are
// rendered in the given order.
func Render(opts RenderOptions, classes []string) ([]byte, error) {
	vars := struct {
		RenderOptions
		Classes []string
	}{
		RenderOptions: opts,
		Classes:       classes,
	}

	var buf bytes.Buffer
	err := renderer.Execute(&buf, vars)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render template")
	}

	return buf.Bytes(), nil
}
