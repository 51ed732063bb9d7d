package model

// Query is a named data query defined on an object.
type Query struct {
	Name      *string
	IsIgnored *string

	Params []*QueryParam
}

// NewQuery returns an empty query.
func NewQuery() *Query { return &Query{} }

func (q *Query) fields() []field {
	return []field{
		text("name", &q.Name),
		text("isIgnored", &q.IsIgnored),
		collection[QueryParam]("queryParam", &q.Params),
	}
}

// ToRaw returns the present fields of the query as a raw JSON object.
func (q *Query) ToRaw() map[string]any { return toRaw(q) }

// AddParam appends p (or a new empty query param when p is nil).
func (q *Query) AddParam(p *QueryParam) *QueryParam {
	if p == nil {
		p = NewQueryParam()
	}
	q.Params = append(q.Params, p)
	return p
}

// QueryParam is an input of a query.
type QueryParam struct {
	Name                    *string
	SQLServerDBDataType     *string
	SQLServerDBDataTypeSize *string
	CodeDescription         *string
	DefaultValue            *string
	IsIgnored               *string
}

// NewQueryParam returns an empty query param.
func NewQueryParam() *QueryParam { return &QueryParam{} }

func (p *QueryParam) fields() []field {
	return []field{
		text("name", &p.Name),
		text("sqlServerDBDataType", &p.SQLServerDBDataType),
		text("sqlServerDBDataTypeSize", &p.SQLServerDBDataTypeSize),
		text("codeDescription", &p.CodeDescription),
		text("defaultValue", &p.DefaultValue),
		text("isIgnored", &p.IsIgnored),
	}
}

// ToRaw returns the present fields of the query param as a raw JSON object.
func (p *QueryParam) ToRaw() map[string]any { return toRaw(p) }
