package server

import (
	"html/template"
	"io"

	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/pkg/types"
)

// formField describes one text input of the configuration form.
type formField struct {
	Name     string // dotted field path, doubles as the input name
	Label    string
	Value    string
	Error    string
	Disabled bool
}

// formView is the data rendered into the configuration form page.
type formView struct {
	Editing       bool
	LambdaEnabled bool
	Cognito       []formField
	BedrockAgent  []formField
	LambdaAgent   []formField
	AgentName     string
}

const formPage = `<!DOCTYPE html>
<html>
<head><title>Connection Settings</title></head>
<body>
<h1>Connection Settings</h1>
{{if not .Editing}}
<p>Configured agent: {{.AgentName}}</p>
<form method="post" action="/api/config/edit"><button type="submit">Edit</button></form>
{{else}}
<form method="post" action="/">
<fieldset>
<legend>Cognito</legend>
{{range .Cognito}}{{template "field" .}}{{end}}
</fieldset>
<fieldset>
<legend>Agent</legend>
<label><input type="radio" name="agentType" value="bedrock"{{if not .LambdaEnabled}} checked{{end}}> Bedrock Agent</label>
<label><input type="radio" name="agentType" value="lambda"{{if .LambdaEnabled}} checked{{end}}> Lambda Agent</label>
{{if .LambdaEnabled}}
{{range .LambdaAgent}}{{template "field" .}}{{end}}
{{else}}
{{range .BedrockAgent}}{{template "field" .}}{{end}}
{{end}}
</fieldset>
<button type="submit" name="action" value="save">Save</button>
<button type="submit" name="action" value="cancel" formnovalidate>Cancel</button>
</form>
{{end}}
</body>
</html>
{{define "field"}}
<div>
<label>{{.Label}}
<input type="text" name="{{.Name}}" value="{{.Value}}"{{if .Disabled}} disabled{{end}}>
</label>
{{if .Error}}<span class="error">{{.Error}}</span>{{end}}
</div>
{{end}}`

var formTemplate = template.Must(template.New("form").Parse(formPage))

// newFormView assembles the form fields from the configuration and its
// current validation errors. The Lambda region input is disabled while its
// value is derived from the function ARN.
func newFormView(cfg *types.AppConfig, errs types.ValidationErrors, editing bool) formView {
	la := cfg.LambdaAgent
	if la == nil {
		la = types.DefaultLambdaAgent()
	}

	field := func(name, label, value string, disabled bool) formField {
		return formField{Name: name, Label: label, Value: value, Error: errs[name], Disabled: disabled}
	}

	return formView{
		Editing:       editing,
		LambdaEnabled: la.Enabled,
		AgentName:     cfg.ActiveAgentName(),
		Cognito: []formField{
			field("cognito.userPoolId", "User Pool ID", cfg.Cognito.UserPoolID, false),
			field("cognito.userPoolClientId", "User Pool Client ID", cfg.Cognito.UserPoolClientID, false),
			field("cognito.region", "Region", cfg.Cognito.Region, false),
			field("cognito.identityPoolId", "Identity Pool ID", cfg.Cognito.IdentityPoolID, false),
		},
		BedrockAgent: []formField{
			field("bedrockAgent.name", "Display Name", cfg.BedrockAgent.Name, false),
			field("bedrockAgent.agentId", "Agent ID", cfg.BedrockAgent.AgentID, false),
			field("bedrockAgent.agentAliasId", "Agent Alias ID", cfg.BedrockAgent.AgentAliasID, false),
			field("bedrockAgent.region", "Region", cfg.BedrockAgent.Region, false),
		},
		LambdaAgent: []formField{
			field("lambdaAgent.name", "Display Name", la.Name, false),
			field("lambdaAgent.functionArn", "Function ARN", la.FunctionARN, false),
			field("lambdaAgent.region", "Region", la.Region, la.RegionLocked),
		},
	}
}

// renderForm writes the configuration form page.
func renderForm(w io.Writer, cfg *types.AppConfig, errs types.ValidationErrors, editing bool) error {
	return formTemplate.Execute(w, newFormView(cfg, errs, editing))
}
