// Package project defines the maxstack project configuration, the schema it
// is validated against and the extractor that evaluates maxstack.tsx.
package project

import "github.com/maxstack-dev/maxstack/internal/templates"

// StandardFeature names a prebuilt site-level feature
type StandardFeature string

// Standard features
const (
	FeatureBlog          StandardFeature = "blog"
	FeatureSaaSMarketing StandardFeature = "saas-marketing"
)

// StandardFeatures returns every known standard feature
func StandardFeatures() []StandardFeature {
	return []StandardFeature{FeatureBlog, FeatureSaaSMarketing}
}

// Page describes one page of the application. Only Name is required; the
// descriptive lists end up as comments in the generated route handler.
type Page struct {
	Name               string                `json:"name" yaml:"name"`
	Description        string                `json:"description,omitempty" yaml:"description,omitempty"`
	RoutePath          *string               `json:"routePath,omitempty" yaml:"routePath,omitempty"`
	Components         []string              `json:"components,omitempty" yaml:"components,omitempty"`
	InfoOnPage         []string              `json:"infoOnPage,omitempty" yaml:"infoOnPage,omitempty"`
	UserActions        []string              `json:"userActions,omitempty" yaml:"userActions,omitempty"`
	AuthRequired       *bool                 `json:"authRequired,omitempty" yaml:"authRequired,omitempty"`
	TemplateComponents []templates.Component `json:"templateComponents,omitempty" yaml:"templateComponents,omitempty"`
}

// Config is the evaluated default export of maxstack.tsx
type Config struct {
	Name             string            `json:"name" yaml:"name"`
	Description      string            `json:"description" yaml:"description"`
	DomainName       string            `json:"domainName,omitempty" yaml:"domainName,omitempty"`
	StandardFeatures []StandardFeature `json:"standardFeatures,omitempty" yaml:"standardFeatures,omitempty"`
	Pages            []Page            `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// Kind is the type of value a schema node accepts
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindEnum
	KindArray
	KindObject
)

// Node is a schema node. Objects list their fields in declaration order;
// arrays carry the schema of their elements.
type Node struct {
	Kind     Kind
	Fields   []Field
	Elem     *Node
	Enum     []string
	NonEmpty bool
}

// Field is a named member of an object node
type Field struct {
	Name     string
	Node     *Node
	Required bool
}

func stringNode() *Node { return &Node{Kind: KindString} }

func stringList() *Node { return &Node{Kind: KindArray, Elem: stringNode()} }

func featureNames() []string {
	features := StandardFeatures()
	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, string(f))
	}
	return names
}

// PageSchema is the schema of a single page
var PageSchema = &Node{
	Kind: KindObject,
	Fields: []Field{
		{Name: "name", Node: &Node{Kind: KindString, NonEmpty: true}, Required: true},
		{Name: "description", Node: stringNode()},
		{Name: "routePath", Node: stringNode()},
		{Name: "components", Node: stringList()},
		{Name: "infoOnPage", Node: stringList()},
		{Name: "userActions", Node: stringList()},
		{Name: "authRequired", Node: &Node{Kind: KindBool}},
		{Name: "templateComponents", Node: &Node{
			Kind: KindArray,
			Elem: &Node{Kind: KindEnum, Enum: templates.Names()},
		}},
	},
}

// ConfigSchema is the schema of the whole project configuration
var ConfigSchema = &Node{
	Kind: KindObject,
	Fields: []Field{
		{Name: "name", Node: stringNode(), Required: true},
		{Name: "description", Node: stringNode(), Required: true},
		{Name: "domainName", Node: stringNode()},
		{Name: "standardFeatures", Node: &Node{
			Kind: KindArray,
			Elem: &Node{Kind: KindEnum, Enum: featureNames()},
		}},
		{Name: "pages", Node: &Node{Kind: KindArray, Elem: PageSchema}},
	},
}
