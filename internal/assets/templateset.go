package assets

// TemplateSet holds the HTML templates that make up a rendered page.
// Page defines the document skeleton and invokes the "header" and
// "footer" templates when header/footer blocks are enabled.
type TemplateSet struct {
	Name   string // Identifier (name or directory path)
	Page   string // page.html
	Header string // header.html
	Footer string // footer.html
}

// Template file names inside a set directory.
const (
	PageTemplateFile   = "page.html"
	HeaderTemplateFile = "header.html"
	FooterTemplateFile = "footer.html"
)

// templateFiles lists the files of a set in load order.
var templateFiles = []string{PageTemplateFile, HeaderTemplateFile, FooterTemplateFile}

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// DefaultStyleName is the name of the built-in CSS style.
const DefaultStyleName = "default"

// fromFiles builds a TemplateSet from a file-name keyed map.
func fromFiles(name string, files map[string]string) *TemplateSet {
	return &TemplateSet{
		Name:   name,
		Page:   files[PageTemplateFile],
		Header: files[HeaderTemplateFile],
		Footer: files[FooterTemplateFile],
	}
}
