package model

// Root is the entry point of an application definition, stored under the
// document's top-level "root" key.
type Root struct {
	// Name and DatabaseName are structurally required and always emitted.
	Name         string
	DatabaseName string

	AppName                       *string
	CompanyLegalName              *string
	CompanyDomain                 *string
	ProjectName                   *string
	ProjectCode                   *string
	ProjectVersionNumber          *string
	DatabaseTitle                 *string
	IsDatabaseAuditColumnsCreated *string
	IsBasicAuthenticationIncluded *string
	IsInternalObjectAPICreated    *string

	Namespaces   []*Namespace
	NavButtons   []*NavButton
	TemplateSets []*TemplateSet
}

// NewRoot returns an empty document root.
func NewRoot() *Root {
	return &Root{}
}

func (r *Root) fields() []field {
	return []field{
		required("name", &r.Name),
		required("databaseName", &r.DatabaseName),
		text("appName", &r.AppName),
		text("companyLegalName", &r.CompanyLegalName),
		text("companyDomain", &r.CompanyDomain),
		text("projectName", &r.ProjectName),
		text("projectCode", &r.ProjectCode),
		text("projectVersionNumber", &r.ProjectVersionNumber),
		text("databaseTitle", &r.DatabaseTitle),
		text("isDatabaseAuditColumnsCreated", &r.IsDatabaseAuditColumnsCreated),
		text("isBasicAuthenticationIncluded", &r.IsBasicAuthenticationIncluded),
		text("isInternalObjectApiCreated", &r.IsInternalObjectAPICreated),
		collection[Namespace]("namespace", &r.Namespaces),
		collection[NavButton]("navButton", &r.NavButtons),
		collection[TemplateSet]("templateSet", &r.TemplateSets),
	}
}

// ToRaw implements Node.
func (r *Root) ToRaw() map[string]any { return toRaw(r) }

// AddNamespace appends ns (or a new empty namespace when ns is nil).
func (r *Root) AddNamespace(ns *Namespace) *Namespace {
	if ns == nil {
		ns = NewNamespace()
	}
	r.Namespaces = append(r.Namespaces, ns)
	return ns
}

// AddNavButton appends b (or a new empty nav button when b is nil).
func (r *Root) AddNavButton(b *NavButton) *NavButton {
	if b == nil {
		b = NewNavButton()
	}
	r.NavButtons = append(r.NavButtons, b)
	return b
}

// AddTemplateSet appends ts (or a new empty template set when ts is nil).
func (r *Root) AddTemplateSet(ts *TemplateSet) *TemplateSet {
	if ts == nil {
		ts = NewTemplateSet()
	}
	r.TemplateSets = append(r.TemplateSets, ts)
	return ts
}

// FindNamespace returns the first namespace with the given name.
func (r *Root) FindNamespace(name string) (*Namespace, bool) {
	for _, ns := range r.Namespaces {
		if ns != nil && Value(ns.Name) == name {
			return ns, true
		}
	}
	return nil, false
}

// Objects returns every object type of every namespace, in document order.
func (r *Root) Objects() []*ObjectType {
	var out []*ObjectType
	for _, ns := range r.Namespaces {
		if ns == nil {
			continue
		}
		for _, obj := range ns.Objects {
			if obj != nil {
				out = append(out, obj)
			}
		}
	}
	return out
}

// FindObject returns the first object type with the given name across all
// namespaces.
func (r *Root) FindObject(name string) (*ObjectType, bool) {
	for _, obj := range r.Objects() {
		if Value(obj.Name) == name {
			return obj, true
		}
	}
	return nil, false
}

// NavButton is an application-level navigation button.
type NavButton struct {
	ButtonName                   *string
	ButtonText                   *string
	ButtonType                   *string
	DestinationContextObjectName *string
	DestinationTargetName        *string
	RoleRequired                 *string
	IsVisible                    *string
	IsIgnored                    *string
}

// NewNavButton returns an empty nav button.
func NewNavButton() *NavButton { return &NavButton{} }

func (b *NavButton) fields() []field {
	return []field{
		text("buttonName", &b.ButtonName),
		text("buttonText", &b.ButtonText),
		text("buttonType", &b.ButtonType),
		text("destinationContextObjectName", &b.DestinationContextObjectName),
		text("destinationTargetName", &b.DestinationTargetName),
		text("roleRequired", &b.RoleRequired),
		text("isVisible", &b.IsVisible),
		text("isIgnored", &b.IsIgnored),
	}
}

// ToRaw returns the present fields of the nav button as a raw JSON object.
func (b *NavButton) ToRaw() map[string]any { return toRaw(b) }

// TemplateSet selects a set of generation templates for the application.
type TemplateSet struct {
	Name       *string
	Title      *string
	Version    *string
	IsDisabled *string
}

// NewTemplateSet returns an empty template set.
func NewTemplateSet() *TemplateSet { return &TemplateSet{} }

func (ts *TemplateSet) fields() []field {
	return []field{
		text("name", &ts.Name),
		text("title", &ts.Title),
		text("version", &ts.Version),
		text("isDisabled", &ts.IsDisabled),
	}
}

// ToRaw returns the present fields of the template set as a raw JSON object.
func (ts *TemplateSet) ToRaw() map[string]any { return toRaw(ts) }
