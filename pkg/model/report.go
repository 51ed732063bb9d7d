package model

// Report is a list, grid or detail view over an object.
type Report struct {
	Name                  *string
	TitleText             *string
	IntroText             *string
	VisualizationType     *string
	TargetChildObject     *string
	IsCustomSQLUsed       *string
	IsPage                *string
	IsRefreshButtonHidden *string

	Columns []*ReportColumn
	Params  []*ReportParam
	Buttons []*ReportButton
}

// NewReport returns an empty report.
func NewReport() *Report { return &Report{} }

func (r *Report) fields() []field {
	return []field{
		text("name", &r.Name),
		text("titleText", &r.TitleText),
		text("introText", &r.IntroText),
		text("visualizationType", &r.VisualizationType),
		text("targetChildObject", &r.TargetChildObject),
		text("isCustomSqlUsed", &r.IsCustomSQLUsed),
		text("isPage", &r.IsPage),
		text("isRefreshButtonHidden", &r.IsRefreshButtonHidden),
		collection[ReportColumn]("reportColumn", &r.Columns),
		collection[ReportParam]("reportParam", &r.Params),
		collection[ReportButton]("reportButton", &r.Buttons),
	}
}

// ToRaw returns the present fields of the report as a raw JSON object.
func (r *Report) ToRaw() map[string]any { return toRaw(r) }

// AddColumn appends c (or a new empty report column when c is nil).
func (r *Report) AddColumn(c *ReportColumn) *ReportColumn {
	if c == nil {
		c = NewReportColumn()
	}
	r.Columns = append(r.Columns, c)
	return c
}

// AddParam appends p (or a new empty report param when p is nil).
func (r *Report) AddParam(p *ReportParam) *ReportParam {
	if p == nil {
		p = NewReportParam()
	}
	r.Params = append(r.Params, p)
	return p
}

// AddButton appends b (or a new empty report button when b is nil).
func (r *Report) AddButton(b *ReportButton) *ReportButton {
	if b == nil {
		b = NewReportButton()
	}
	r.Buttons = append(r.Buttons, b)
	return b
}

// ReportColumn is a displayed column of a report.
type ReportColumn struct {
	Name                         *string
	HeaderText                   *string
	SQLServerDBDataType          *string
	SQLServerDBDataTypeSize      *string
	IsButton                     *string
	ButtonText                   *string
	DestinationContextObjectName *string
	DestinationTargetName        *string
	IsVisible                    *string
	MinWidth                     *string
}

// NewReportColumn returns an empty report column.
func NewReportColumn() *ReportColumn { return &ReportColumn{} }

func (c *ReportColumn) fields() []field {
	return []field{
		text("name", &c.Name),
		text("headerText", &c.HeaderText),
		text("sqlServerDBDataType", &c.SQLServerDBDataType),
		text("sqlServerDBDataTypeSize", &c.SQLServerDBDataTypeSize),
		text("isButton", &c.IsButton),
		text("buttonText", &c.ButtonText),
		text("destinationContextObjectName", &c.DestinationContextObjectName),
		text("destinationTargetName", &c.DestinationTargetName),
		text("isVisible", &c.IsVisible),
		text("minWidth", &c.MinWidth),
	}
}

// ToRaw returns the present fields of the report column as a raw JSON object.
func (c *ReportColumn) ToRaw() map[string]any { return toRaw(c) }

// ReportParam is a filter input of a report.
type ReportParam struct {
	Name                    *string
	LabelText               *string
	SQLServerDBDataType     *string
	SQLServerDBDataTypeSize *string
	TargetColumnName        *string
	IsFK                    *string
	FKObjectName            *string
	IsFKLookup              *string
	IsVisible               *string
}

// NewReportParam returns an empty report param.
func NewReportParam() *ReportParam { return &ReportParam{} }

func (p *ReportParam) fields() []field {
	return []field{
		text("name", &p.Name),
		text("labelText", &p.LabelText),
		text("sqlServerDBDataType", &p.SQLServerDBDataType),
		text("sqlServerDBDataTypeSize", &p.SQLServerDBDataTypeSize),
		text("targetColumnName", &p.TargetColumnName),
		text("isFK", &p.IsFK),
		text("fKObjectName", &p.FKObjectName),
		text("isFKLookup", &p.IsFKLookup),
		text("isVisible", &p.IsVisible),
	}
}

// ToRaw returns the present fields of the report param as a raw JSON object.
func (p *ReportParam) ToRaw() map[string]any { return toRaw(p) }

// ReportButton is a button shown on a report.
type ReportButton struct {
	ButtonName                   *string
	ButtonText                   *string
	ButtonType                   *string
	DestinationContextObjectName *string
	DestinationTargetName        *string
	AccessKey                    *string
	IsVisible                    *string
}

// NewReportButton returns an empty report button.
func NewReportButton() *ReportButton { return &ReportButton{} }

func (b *ReportButton) fields() []field {
	return []field{
		text("buttonName", &b.ButtonName),
		text("buttonText", &b.ButtonText),
		text("buttonType", &b.ButtonType),
		text("destinationContextObjectName", &b.DestinationContextObjectName),
		text("destinationTargetName", &b.DestinationTargetName),
		text("accessKey", &b.AccessKey),
		text("isVisible", &b.IsVisible),
	}
}

// ToRaw returns the present fields of the report button as a raw JSON object.
func (b *ReportButton) ToRaw() map[string]any { return toRaw(b) }
