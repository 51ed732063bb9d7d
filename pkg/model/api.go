package model

// APISite is a published web API of the application.
type APISite struct {
	Name          *string
	Title         *string
	Description   *string
	VersionNumber *string
	IsPublic      *string

	Environments []*APIEnvironment
	EndPoints    []*APIEndPoint
}

// NewAPISite returns an empty API site.
func NewAPISite() *APISite { return &APISite{} }

func (s *APISite) fields() []field {
	return []field{
		text("name", &s.Name),
		text("title", &s.Title),
		text("description", &s.Description),
		text("versionNumber", &s.VersionNumber),
		text("isPublic", &s.IsPublic),
		collection[APIEnvironment]("apiEnvironment", &s.Environments),
		collection[APIEndPoint]("apiEndPoint", &s.EndPoints),
	}
}

// ToRaw returns the present fields of the API site as a raw JSON object.
func (s *APISite) ToRaw() map[string]any { return toRaw(s) }

// AddEnvironment appends e (or a new empty API environment when e is nil).
func (s *APISite) AddEnvironment(e *APIEnvironment) *APIEnvironment {
	if e == nil {
		e = NewAPIEnvironment()
	}
	s.Environments = append(s.Environments, e)
	return e
}

// AddEndPoint appends ep (or a new empty API end point when ep is nil).
func (s *APISite) AddEndPoint(ep *APIEndPoint) *APIEndPoint {
	if ep == nil {
		ep = NewAPIEndPoint()
	}
	s.EndPoints = append(s.EndPoints, ep)
	return ep
}

// APIEnvironment is a deployment target of an API site.
type APIEnvironment struct {
	Name        *string
	Description *string
	URL         *string
}

// NewAPIEnvironment returns an empty API environment.
func NewAPIEnvironment() *APIEnvironment { return &APIEnvironment{} }

func (e *APIEnvironment) fields() []field {
	return []field{
		text("name", &e.Name),
		text("description", &e.Description),
		text("url", &e.URL),
	}
}

// ToRaw returns the present fields of the API environment as a raw JSON object.
func (e *APIEnvironment) ToRaw() map[string]any { return toRaw(e) }

// APIEndPoint exposes an object workflow or report through an API site.
type APIEndPoint struct {
	Name                 *string
	Description          *string
	APIContextObjectName *string
	APIContextTargetName *string
	IsIgnored            *string
}

// NewAPIEndPoint returns an empty API end point.
func NewAPIEndPoint() *APIEndPoint { return &APIEndPoint{} }

func (ep *APIEndPoint) fields() []field {
	return []field{
		text("name", &ep.Name),
		text("description", &ep.Description),
		text("apiContextObjectName", &ep.APIContextObjectName),
		text("apiContextTargetName", &ep.APIContextTargetName),
		text("isIgnored", &ep.IsIgnored),
	}
}

// ToRaw returns the present fields of the API end point as a raw JSON object.
func (ep *APIEndPoint) ToRaw() map[string]any { return toRaw(ep) }
