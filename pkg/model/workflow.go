package model

// Workflow is an object workflow: a form or page that acts on an object
// ("objectWorkflow").
type Workflow struct {
	Name                     *string
	TitleText                *string
	IntroText                *string
	FormTitleText            *string
	IsPage                   *string
	IsAuthorizationRequired  *string
	RoleRequired             *string
	IsDynaFlow               *string
	IsDynaFlowTask           *string
	IsCustomLogicOverwritten *string

	Params     []*WorkflowParam
	OutputVars []*WorkflowOutputVar
	Buttons    []*WorkflowButton
	Tasks      []*DynaFlowTask
}

// NewWorkflow returns an empty workflow.
func NewWorkflow() *Workflow { return &Workflow{} }

func (w *Workflow) fields() []field {
	return []field{
		text("name", &w.Name),
		text("titleText", &w.TitleText),
		text("introText", &w.IntroText),
		text("formTitleText", &w.FormTitleText),
		text("isPage", &w.IsPage),
		text("isAuthorizationRequired", &w.IsAuthorizationRequired),
		text("roleRequired", &w.RoleRequired),
		text("isDynaFlow", &w.IsDynaFlow),
		text("isDynaFlowTask", &w.IsDynaFlowTask),
		text("isCustomLogicOverwritten", &w.IsCustomLogicOverwritten),
		collection[WorkflowParam]("objectWorkflowParam", &w.Params),
		collection[WorkflowOutputVar]("objectWorkflowOutputVar", &w.OutputVars),
		collection[WorkflowButton]("objectWorkflowButton", &w.Buttons),
		collection[DynaFlowTask]("dynaFlowTask", &w.Tasks),
	}
}

// ToRaw returns the present fields of the workflow as a raw JSON object.
func (w *Workflow) ToRaw() map[string]any { return toRaw(w) }

// AddParam appends p (or a new empty parameter when p is nil) and returns it.
func (w *Workflow) AddParam(p *WorkflowParam) *WorkflowParam {
	if p == nil {
		p = NewWorkflowParam()
	}
	w.Params = append(w.Params, p)
	return p
}

// AddOutputVar appends v (or a new empty output variable when v is nil).
func (w *Workflow) AddOutputVar(v *WorkflowOutputVar) *WorkflowOutputVar {
	if v == nil {
		v = NewWorkflowOutputVar()
	}
	w.OutputVars = append(w.OutputVars, v)
	return v
}

// AddButton appends b (or a new empty button when b is nil).
func (w *Workflow) AddButton(b *WorkflowButton) *WorkflowButton {
	if b == nil {
		b = NewWorkflowButton()
	}
	w.Buttons = append(w.Buttons, b)
	return b
}

// AddTask appends t (or a new empty DynaFlow task when t is nil).
func (w *Workflow) AddTask(t *DynaFlowTask) *DynaFlowTask {
	if t == nil {
		t = NewDynaFlowTask()
	}
	w.Tasks = append(w.Tasks, t)
	return t
}

// WorkflowParam is an input field of a workflow form.
type WorkflowParam struct {
	Name                    *string
	LabelText               *string
	CodeDescription         *string
	SQLServerDBDataType     *string
	SQLServerDBDataTypeSize *string
	DefaultValue            *string
	IsFK                    *string
	FKObjectName            *string
	IsRequired              *string
	IsVisible               *string
}

// NewWorkflowParam returns an empty workflow param.
func NewWorkflowParam() *WorkflowParam { return &WorkflowParam{} }

func (p *WorkflowParam) fields() []field {
	return []field{
		text("name", &p.Name),
		text("labelText", &p.LabelText),
		text("codeDescription", &p.CodeDescription),
		text("sqlServerDBDataType", &p.SQLServerDBDataType),
		text("sqlServerDBDataTypeSize", &p.SQLServerDBDataTypeSize),
		text("defaultValue", &p.DefaultValue),
		text("isFK", &p.IsFK),
		text("fKObjectName", &p.FKObjectName),
		text("isRequired", &p.IsRequired),
		text("isVisible", &p.IsVisible),
	}
}

// ToRaw returns the present fields of the workflow param as a raw JSON object.
func (p *WorkflowParam) ToRaw() map[string]any { return toRaw(p) }

// WorkflowOutputVar is a value a workflow exposes after it runs.
type WorkflowOutputVar struct {
	Name                    *string
	LabelText               *string
	SQLServerDBDataType     *string
	SQLServerDBDataTypeSize *string
	SourceObjectName        *string
	SourcePropertyName      *string
	IsLink                  *string
	IsVisible               *string
}

// NewWorkflowOutputVar returns an empty workflow output var.
func NewWorkflowOutputVar() *WorkflowOutputVar { return &WorkflowOutputVar{} }

func (v *WorkflowOutputVar) fields() []field {
	return []field{
		text("name", &v.Name),
		text("labelText", &v.LabelText),
		text("sqlServerDBDataType", &v.SQLServerDBDataType),
		text("sqlServerDBDataTypeSize", &v.SQLServerDBDataTypeSize),
		text("sourceObjectName", &v.SourceObjectName),
		text("sourcePropertyName", &v.SourcePropertyName),
		text("isLink", &v.IsLink),
		text("isVisible", &v.IsVisible),
	}
}

// ToRaw returns the present fields of the workflow output var as a raw JSON object.
func (v *WorkflowOutputVar) ToRaw() map[string]any { return toRaw(v) }

// WorkflowButton is a button on a workflow form.
type WorkflowButton struct {
	ButtonText                   *string
	ButtonType                   *string
	DestinationContextObjectName *string
	DestinationTargetName        *string
	IsVisible                    *string
	IsIgnored                    *string
}

// NewWorkflowButton returns an empty workflow button.
func NewWorkflowButton() *WorkflowButton { return &WorkflowButton{} }

func (b *WorkflowButton) fields() []field {
	return []field{
		text("buttonText", &b.ButtonText),
		text("buttonType", &b.ButtonType),
		text("destinationContextObjectName", &b.DestinationContextObjectName),
		text("destinationTargetName", &b.DestinationTargetName),
		text("isVisible", &b.IsVisible),
		text("isIgnored", &b.IsIgnored),
	}
}

// ToRaw returns the present fields of the workflow button as a raw JSON object.
func (b *WorkflowButton) ToRaw() map[string]any { return toRaw(b) }

// DynaFlowTask is one step of a DynaFlow workflow.
type DynaFlowTask struct {
	Name              *string
	Description       *string
	ContextObjectName *string
	IsIgnored         *string
}

// NewDynaFlowTask returns an empty dyna flow task.
func NewDynaFlowTask() *DynaFlowTask { return &DynaFlowTask{} }

func (t *DynaFlowTask) fields() []field {
	return []field{
		text("name", &t.Name),
		text("description", &t.Description),
		text("contextObjectName", &t.ContextObjectName),
		text("isIgnored", &t.IsIgnored),
	}
}

// ToRaw returns the present fields of the dyna flow task as a raw JSON object.
func (t *DynaFlowTask) ToRaw() map[string]any { return toRaw(t) }
