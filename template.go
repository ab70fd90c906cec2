package goslingshot

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// specEscaper escapes text for a JavaScript template literal inside a
// <script> element. The replacer makes a single pass, so backslashes it
// inserts are never escaped again.
var specEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"${", "\\${",
	"</", `<\/`,
	"\r", `\r`,
)

// EscapeSpec escapes spec text for embedding between backticks in the
// document. The escaped literal evaluates back to the original text:
// backslashes (for example in "\t" separators) stay literal, and the text
// can neither close the literal, start an interpolation, nor end the script.
func EscapeSpec(spec string) string {
	return specEscaper.Replace(spec)
}

// specExpression returns the JavaScript expression that parses the spec.
func specExpression(spec string) string {
	return "JSON.parse(`" + EscapeSpec(spec) + "`)"
}

// documentData is passed to the document template.
type documentData struct {
	Packages       Packages
	SpecExpression string
}

// parseDocumentTemplate parses template content loaded from assets.
func parseDocumentTemplate(name, content string) (*template.Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %v", ErrTemplateRender, name, err)
	}
	return tmpl, nil
}

// buildDocument renders the HTML document that embeds spec.
func buildDocument(tmpl *template.Template, packages Packages, spec string) (string, error) {
	var buf bytes.Buffer
	data := documentData{
		Packages:       packages,
		SpecExpression: specExpression(spec),
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}
