package model

// Annotation holds the render-ready facts attached to a property or
// parameter by the annotation pipeline.
type Annotation struct {
	EntityType     string `json:"entity_type" yaml:"entity_type"`
	CommentType    string `json:"comment_type" yaml:"comment_type"`
	HintType       string `json:"hint_type,omitempty" yaml:"hint_type,omitempty"`
	Classification string `json:"classification" yaml:"classification"`
}

type Property struct {
	Name        string   `json:"name" yaml:"name"`
	Type        *TypeRef `json:"type" yaml:"type"`
	IsContainer bool     `json:"is_container,omitempty" yaml:"is_container,omitempty"`
	Default     *string  `json:"default,omitempty" yaml:"default,omitempty"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`

	// Naming -------------------------------------------------------------
	VarName string `json:"var_name,omitempty" yaml:"var_name,omitempty"`
	Getter  string `json:"getter,omitempty" yaml:"getter,omitempty"`
	Setter  string `json:"setter,omitempty" yaml:"setter,omitempty"`

	// Annotation ---------------------------------------------------------
	Annotation Annotation `json:"annotation" yaml:"annotation"`
	Annotated  bool       `json:"-" yaml:"-"`
}

type Model struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	IsEnum      bool        `json:"is_enum,omitempty" yaml:"is_enum,omitempty"`
	EnumType    *TypeRef    `json:"enum_type,omitempty" yaml:"enum_type,omitempty"` // primitive, nil unless IsEnum
	EnumValues  []string    `json:"enum_values,omitempty" yaml:"enum_values,omitempty"`
	Properties  []*Property `json:"properties,omitempty" yaml:"properties,omitempty"`

	EnumLiterals []string `json:"enum_literals,omitempty" yaml:"enum_literals,omitempty"`
}

type Parameter struct {
	Name        string   `json:"name" yaml:"name"`
	In          string   `json:"in,omitempty" yaml:"in,omitempty"` // path, query, header, cookie, body, form
	Type        *TypeRef `json:"type" yaml:"type"`
	IsContainer bool     `json:"is_container,omitempty" yaml:"is_container,omitempty"`
	Default     *string  `json:"default,omitempty" yaml:"default,omitempty"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`

	VarName    string     `json:"var_name,omitempty" yaml:"var_name,omitempty"`
	Annotation Annotation `json:"annotation" yaml:"annotation"`
	Annotated  bool       `json:"-" yaml:"-"`
}

// AuthMethod is a security scheme an operation accepts. Name is its set identity.
type AuthMethod struct {
	Name         string `json:"name" yaml:"name"`
	Type         string `json:"type" yaml:"type"` // apiKey, http, oauth2, openIdConnect
	In           string `json:"in,omitempty" yaml:"in,omitempty"`
	KeyParamName string `json:"key_param_name,omitempty" yaml:"key_param_name,omitempty"`
	Scheme       string `json:"scheme,omitempty" yaml:"scheme,omitempty"`
}

type Operation struct {
	OperationID string        `json:"operation_id" yaml:"operation_id"`
	Method      string        `json:"method,omitempty" yaml:"method,omitempty"`
	Path        string        `json:"path,omitempty" yaml:"path,omitempty"`
	PathPrefix  string        `json:"path_prefix" yaml:"path_prefix"`
	Parameters  []*Parameter  `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	ReturnType  *TypeRef      `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	AuthMethods []*AuthMethod `json:"auth_methods,omitempty" yaml:"auth_methods,omitempty"`

	// Group annotation ---------------------------------------------------
	ControllerName   string        `json:"controller_name,omitempty" yaml:"controller_name,omitempty"`
	APIName          string        `json:"api_name,omitempty" yaml:"api_name,omitempty"`
	ServiceID        string        `json:"service_id,omitempty" yaml:"service_id,omitempty"`
	GroupAuthMethods []*AuthMethod `json:"group_auth_methods,omitempty" yaml:"group_auth_methods,omitempty"`

	ReturnCommentType string `json:"return_comment_type,omitempty" yaml:"return_comment_type,omitempty"`
	ReturnHintType    string `json:"return_hint_type,omitempty" yaml:"return_hint_type,omitempty"`
	Annotated         bool   `json:"-" yaml:"-"`
}

// Schema is the in-memory description handed over by the schema parser.
type Schema struct {
	Models     []*Model     `json:"models" yaml:"models"`
	Operations []*Operation `json:"operations" yaml:"operations"`
}
