package model

// ObjectType is a data object of the application ("object" in the format).
type ObjectType struct {
	Name             *string
	ParentObjectName *string
	IsLookup         *string
	IsAbstract       *string
	IsNotImplemented *string
	CodeDescription  *string

	Props             []*Property
	PropSubscriptions []*PropSubscription
	CalculatedProps   []*CalculatedProp
	Reports           []*Report
	Workflows         []*Workflow
	Fetches           []*Fetch
	Queries           []*Query
	IntersectionObjs  []*IntersectionObject
	ChildObjects      []*ChildObject
	LookupItems       []*LookupItem
}

// NewObjectType returns an empty object type.
func NewObjectType() *ObjectType { return &ObjectType{} }

func (o *ObjectType) fields() []field {
	return []field{
		text("name", &o.Name),
		text("parentObjectName", &o.ParentObjectName),
		text("isLookup", &o.IsLookup),
		text("isAbstract", &o.IsAbstract),
		text("isNotImplemented", &o.IsNotImplemented),
		text("codeDescription", &o.CodeDescription),
		collection[Property]("prop", &o.Props),
		collection[PropSubscription]("propSubscription", &o.PropSubscriptions),
		collection[CalculatedProp]("calculatedProp", &o.CalculatedProps),
		collection[Report]("report", &o.Reports),
		collection[Workflow]("objectWorkflow", &o.Workflows),
		collection[Fetch]("fetch", &o.Fetches),
		collection[Query]("query", &o.Queries),
		collection[IntersectionObject]("intersectionObj", &o.IntersectionObjs),
		collection[ChildObject]("childObject", &o.ChildObjects),
		collection[LookupItem]("lookupItem", &o.LookupItems),
	}
}

// ToRaw returns the present fields of the object type as a raw JSON object.
func (o *ObjectType) ToRaw() map[string]any { return toRaw(o) }

// AddProp appends p (or a new empty property when p is nil).
func (o *ObjectType) AddProp(p *Property) *Property {
	if p == nil {
		p = NewProperty()
	}
	o.Props = append(o.Props, p)
	return p
}

// AddPropSubscription appends s (or a new empty prop subscription when s is nil).
func (o *ObjectType) AddPropSubscription(s *PropSubscription) *PropSubscription {
	if s == nil {
		s = NewPropSubscription()
	}
	o.PropSubscriptions = append(o.PropSubscriptions, s)
	return s
}

// AddCalculatedProp appends c (or a new empty calculated prop when c is nil).
func (o *ObjectType) AddCalculatedProp(c *CalculatedProp) *CalculatedProp {
	if c == nil {
		c = NewCalculatedProp()
	}
	o.CalculatedProps = append(o.CalculatedProps, c)
	return c
}

// AddReport appends r (or a new empty report when r is nil).
func (o *ObjectType) AddReport(r *Report) *Report {
	if r == nil {
		r = NewReport()
	}
	o.Reports = append(o.Reports, r)
	return r
}

// AddWorkflow appends w (or a new empty workflow when w is nil).
func (o *ObjectType) AddWorkflow(w *Workflow) *Workflow {
	if w == nil {
		w = NewWorkflow()
	}
	o.Workflows = append(o.Workflows, w)
	return w
}

// AddFetch appends f (or a new empty fetch when f is nil).
func (o *ObjectType) AddFetch(f *Fetch) *Fetch {
	if f == nil {
		f = NewFetch()
	}
	o.Fetches = append(o.Fetches, f)
	return f
}

// AddQuery appends q (or a new empty query when q is nil).
func (o *ObjectType) AddQuery(q *Query) *Query {
	if q == nil {
		q = NewQuery()
	}
	o.Queries = append(o.Queries, q)
	return q
}

// AddIntersectionObj appends io (or a new empty intersection object when io is nil).
func (o *ObjectType) AddIntersectionObj(io *IntersectionObject) *IntersectionObject {
	if io == nil {
		io = NewIntersectionObject()
	}
	o.IntersectionObjs = append(o.IntersectionObjs, io)
	return io
}

// AddChildObject appends c (or a new empty child object when c is nil).
func (o *ObjectType) AddChildObject(c *ChildObject) *ChildObject {
	if c == nil {
		c = NewChildObject()
	}
	o.ChildObjects = append(o.ChildObjects, c)
	return c
}

// AddLookupItem appends item (or a new empty lookup item when item is nil).
func (o *ObjectType) AddLookupItem(item *LookupItem) *LookupItem {
	if item == nil {
		item = NewLookupItem()
	}
	o.LookupItems = append(o.LookupItems, item)
	return item
}

// FindProp returns the first property with the given name.
func (o *ObjectType) FindProp(name string) (*Property, bool) {
	for _, p := range o.Props {
		if p != nil && Value(p.Name) == name {
			return p, true
		}
	}
	return nil, false
}

// FindWorkflow returns the first workflow with the given name.
func (o *ObjectType) FindWorkflow(name string) (*Workflow, bool) {
	for _, w := range o.Workflows {
		if w != nil && Value(w.Name) == name {
			return w, true
		}
	}
	return nil, false
}

// FindReport returns the first report with the given name.
func (o *ObjectType) FindReport(name string) (*Report, bool) {
	for _, r := range o.Reports {
		if r != nil && Value(r.Name) == name {
			return r, true
		}
	}
	return nil, false
}

// Property is a stored attribute of an object type ("prop").
type Property struct {
	Name                          *string
	LabelText                     *string
	CodeDescription               *string
	SQLServerDBDataType           *string
	SQLServerDBDataTypeSize       *string
	IsFK                          *string
	FKObjectName                  *string
	IsFKLookup                    *string
	IsFKConstraintSuppressed      *string
	IsRequired                    *string
	IsQueryByAvailable            *string
	IsEncrypted                   *string
	DefaultValue                  *string
	IsNotPublishedToSubscriptions *string
}

// NewProperty returns an empty property.
func NewProperty() *Property { return &Property{} }

func (p *Property) fields() []field {
	return []field{
		text("name", &p.Name),
		text("labelText", &p.LabelText),
		text("codeDescription", &p.CodeDescription),
		text("sqlServerDBDataType", &p.SQLServerDBDataType),
		text("sqlServerDBDataTypeSize", &p.SQLServerDBDataTypeSize),
		text("isFK", &p.IsFK),
		text("fKObjectName", &p.FKObjectName),
		text("isFKLookup", &p.IsFKLookup),
		text("isFKConstraintSuppressed", &p.IsFKConstraintSuppressed),
		text("isRequired", &p.IsRequired),
		text("isQueryByAvailable", &p.IsQueryByAvailable),
		text("isEncrypted", &p.IsEncrypted),
		text("defaultValue", &p.DefaultValue),
		text("isNotPublishedToSubscriptions", &p.IsNotPublishedToSubscriptions),
	}
}

// ToRaw returns the present fields of the property as a raw JSON object.
func (p *Property) ToRaw() map[string]any { return toRaw(p) }

// PropSubscription subscribes an object to property changes of another.
type PropSubscription struct {
	DestinationContextObjectName *string
	DestinationTargetName        *string
	IsIgnored                    *string
}

// NewPropSubscription returns an empty prop subscription.
func NewPropSubscription() *PropSubscription { return &PropSubscription{} }

func (s *PropSubscription) fields() []field {
	return []field{
		text("destinationContextObjectName", &s.DestinationContextObjectName),
		text("destinationTargetName", &s.DestinationTargetName),
		text("isIgnored", &s.IsIgnored),
	}
}

// ToRaw returns the present fields of the prop subscription as a raw JSON object.
func (s *PropSubscription) ToRaw() map[string]any { return toRaw(s) }

// CalculatedProp is a derived, non-stored property.
type CalculatedProp struct {
	Name        *string
	Description *string
	IsIgnored   *string
}

// NewCalculatedProp returns an empty calculated prop.
func NewCalculatedProp() *CalculatedProp { return &CalculatedProp{} }

func (c *CalculatedProp) fields() []field {
	return []field{
		text("name", &c.Name),
		text("description", &c.Description),
		text("isIgnored", &c.IsIgnored),
	}
}

// ToRaw returns the present fields of the calculated prop as a raw JSON object.
func (c *CalculatedProp) ToRaw() map[string]any { return toRaw(c) }

// Fetch loads a related object by one of its properties.
type Fetch struct {
	Name         *string
	ByPropName   *string
	ByObjectName *string
	IsIgnored    *string
}

// NewFetch returns an empty fetch.
func NewFetch() *Fetch { return &Fetch{} }

func (f *Fetch) fields() []field {
	return []field{
		text("name", &f.Name),
		text("byPropName", &f.ByPropName),
		text("byObjectName", &f.ByObjectName),
		text("isIgnored", &f.IsIgnored),
	}
}

// ToRaw returns the present fields of the fetch as a raw JSON object.
func (f *Fetch) ToRaw() map[string]any { return toRaw(f) }

// IntersectionObject names the many-to-many link with a paired object.
type IntersectionObject struct {
	Name             *string
	PairedObjectName *string
}

// NewIntersectionObject returns an empty intersection object.
func NewIntersectionObject() *IntersectionObject { return &IntersectionObject{} }

func (io *IntersectionObject) fields() []field {
	return []field{
		text("name", &io.Name),
		text("pairedObjectName", &io.PairedObjectName),
	}
}

// ToRaw returns the present fields of the intersection object as a raw JSON object.
func (io *IntersectionObject) ToRaw() map[string]any { return toRaw(io) }

// ChildObject references an object type owned by this one.
type ChildObject struct {
	Name *string
}

// NewChildObject returns an empty child object.
func NewChildObject() *ChildObject { return &ChildObject{} }

func (c *ChildObject) fields() []field {
	return []field{
		text("name", &c.Name),
	}
}

// ToRaw returns the present fields of the child object as a raw JSON object.
func (c *ChildObject) ToRaw() map[string]any { return toRaw(c) }

// LookupItem is a fixed value row of a lookup object.
type LookupItem struct {
	Name        *string
	DisplayName *string
	Description *string
	IsActive    *string
}

// NewLookupItem returns an empty lookup item.
func NewLookupItem() *LookupItem { return &LookupItem{} }

func (l *LookupItem) fields() []field {
	return []field{
		text("name", &l.Name),
		text("displayName", &l.DisplayName),
		text("description", &l.Description),
		text("isActive", &l.IsActive),
	}
}

// ToRaw returns the present fields of the lookup item as a raw JSON object.
func (l *LookupItem) ToRaw() map[string]any { return toRaw(l) }
