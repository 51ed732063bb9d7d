package model

// Namespace groups the object types and supporting catalogs of one area of
// the application.
type Namespace struct {
	Name      *string
	IsDefault *string

	Objects       []*ObjectType
	APISites      []*APISite
	ModelFeatures []*ModelFeature
	ModelPackages []*ModelPackage
	Lexicon       []*LexiconItem
	UserStories   []*UserStory
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace { return &Namespace{} }

func (ns *Namespace) fields() []field {
	return []field{
		text("name", &ns.Name),
		text("isDefault", &ns.IsDefault),
		collection[ObjectType]("object", &ns.Objects),
		collection[APISite]("apiSite", &ns.APISites),
		collection[ModelFeature]("modelFeature", &ns.ModelFeatures),
		collection[ModelPackage]("modelPackage", &ns.ModelPackages),
		collection[LexiconItem]("lexicon", &ns.Lexicon),
		collection[UserStory]("userStory", &ns.UserStories),
	}
}

// ToRaw returns the present fields of the namespace as a raw JSON object.
func (ns *Namespace) ToRaw() map[string]any { return toRaw(ns) }

// AddObject appends obj (or a new empty object type when obj is nil).
func (ns *Namespace) AddObject(obj *ObjectType) *ObjectType {
	if obj == nil {
		obj = NewObjectType()
	}
	ns.Objects = append(ns.Objects, obj)
	return obj
}

// AddAPISite appends site (or a new empty API site when site is nil).
func (ns *Namespace) AddAPISite(site *APISite) *APISite {
	if site == nil {
		site = NewAPISite()
	}
	ns.APISites = append(ns.APISites, site)
	return site
}

// AddModelFeature appends f (or a new empty model feature when f is nil).
func (ns *Namespace) AddModelFeature(f *ModelFeature) *ModelFeature {
	if f == nil {
		f = NewModelFeature()
	}
	ns.ModelFeatures = append(ns.ModelFeatures, f)
	return f
}

// AddModelPackage appends p (or a new empty model package when p is nil).
func (ns *Namespace) AddModelPackage(p *ModelPackage) *ModelPackage {
	if p == nil {
		p = NewModelPackage()
	}
	ns.ModelPackages = append(ns.ModelPackages, p)
	return p
}

// AddLexiconItem appends item (or a new empty lexicon item when item is nil).
func (ns *Namespace) AddLexiconItem(item *LexiconItem) *LexiconItem {
	if item == nil {
		item = NewLexiconItem()
	}
	ns.Lexicon = append(ns.Lexicon, item)
	return item
}

// AddUserStory appends s (or a new empty user story when s is nil).
func (ns *Namespace) AddUserStory(s *UserStory) *UserStory {
	if s == nil {
		s = NewUserStory()
	}
	ns.UserStories = append(ns.UserStories, s)
	return s
}

// FindObject returns the first object type in the namespace with the given
// name.
func (ns *Namespace) FindObject(name string) (*ObjectType, bool) {
	for _, obj := range ns.Objects {
		if obj != nil && Value(obj.Name) == name {
			return obj, true
		}
	}
	return nil, false
}

// ModelFeature is a reusable feature pulled into the model from a catalog.
type ModelFeature struct {
	Name        *string
	Description *string
	Version     *string
	IsCompleted *string
}

// NewModelFeature returns an empty model feature.
func NewModelFeature() *ModelFeature { return &ModelFeature{} }

func (f *ModelFeature) fields() []field {
	return []field{
		text("name", &f.Name),
		text("description", &f.Description),
		text("version", &f.Version),
		text("isCompleted", &f.IsCompleted),
	}
}

// ToRaw returns the present fields of the model feature as a raw JSON object.
func (f *ModelFeature) ToRaw() map[string]any { return toRaw(f) }

// ModelPackage is a published bundle of model features.
type ModelPackage struct {
	Name                  *string
	Description           *string
	Version               *string
	IsSubscriptionAllowed *string
}

// NewModelPackage returns an empty model package.
func NewModelPackage() *ModelPackage { return &ModelPackage{} }

func (p *ModelPackage) fields() []field {
	return []field{
		text("name", &p.Name),
		text("description", &p.Description),
		text("version", &p.Version),
		text("isSubscriptionAllowed", &p.IsSubscriptionAllowed),
	}
}

// ToRaw returns the present fields of the model package as a raw JSON object.
func (p *ModelPackage) ToRaw() map[string]any { return toRaw(p) }

// LexiconItem maps an internal term to the text shown to users.
type LexiconItem struct {
	InternalText *string
	DisplayText  *string
}

// NewLexiconItem returns an empty lexicon item.
func NewLexiconItem() *LexiconItem { return &LexiconItem{} }

func (l *LexiconItem) fields() []field {
	return []field{
		text("internalText", &l.InternalText),
		text("displayText", &l.DisplayText),
	}
}

// ToRaw returns the present fields of the lexicon item as a raw JSON object.
func (l *LexiconItem) ToRaw() map[string]any { return toRaw(l) }

// UserStory is a requirement statement tracked alongside the model.
type UserStory struct {
	StoryNumber      *string
	StoryText        *string
	IsStoryProcessed *string
	IsIgnored        *string
}

// NewUserStory returns an empty user story.
func NewUserStory() *UserStory { return &UserStory{} }

func (s *UserStory) fields() []field {
	return []field{
		text("storyNumber", &s.StoryNumber),
		text("storyText", &s.StoryText),
		text("isStoryProcessed", &s.IsStoryProcessed),
		text("isIgnored", &s.IsIgnored),
	}
}

// ToRaw returns the present fields of the user story as a raw JSON object.
func (s *UserStory) ToRaw() map[string]any { return toRaw(s) }
