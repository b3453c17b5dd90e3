package types

// GroupParams is the group-level metadata set on every registration pass
type GroupParams struct {
	Framework     string                 `json:"framework"`
	Component     interface{}            `json:"component,omitempty"`
	Subcomponents map[string]interface{} `json:"subcomponents,omitempty"`
	FileName      string                 `json:"file_name,omitempty"`
	Parameters    Parameters             `json:"parameters,omitempty"`
	Args          Args                   `json:"args,omitempty"`
	ArgTypes      ArgTypes               `json:"arg_types,omitempty"`
}

// EntryParams is the merged parameter bag registered with each entry
type EntryParams struct {
	Parameters Parameters  `json:"parameters,omitempty"`
	ID         string      `json:"id"`
	Decorators []Decorator `json:"-"`
	Args       Args        `json:"args,omitempty"`
	ArgTypes   ArgTypes    `json:"arg_types,omitempty"`
}

// Store is the catalog that groups and entries are registered into
type Store interface {
	CreateOrGetGroup(title string) GroupHandle
	RemoveGroup(title string)
}

// GroupHandle is a registered group as seen by the registration engine
type GroupHandle interface {
	SetParameters(params GroupParams)
	AddDecorator(decorator Decorator)
	AddEntry(name string, render RenderFunc, params EntryParams) error
}
