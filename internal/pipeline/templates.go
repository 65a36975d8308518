package pipeline

import (
	"strings"

	"recruiting-platform/internal/models"
)

// emailTemplate holds the subject and HTML body sent for a pipeline stage.
// Placeholders use the {{name}} form and are replaced at send time.
type emailTemplate struct {
	Subject string
	Body    string
}

// stageTemplates maps the stages that notify candidates to their email
// content. Stages missing from this map never produce an email.
var stageTemplates = map[models.Stage]emailTemplate{
	models.StageInterview: {
		Subject: "Convite para Entrevista - {{jobTitle}}",
		Body: `<p>Olá {{candidateName}},</p>
<p>Temos boas notícias! Sua candidatura para a vaga <strong>{{jobTitle}}</strong> avançou no processo seletivo.</p>
<p>Em breve nossa equipe entrará em contato para agendar a sua entrevista.</p>
<p>Atenciosamente,<br>Equipe de Recrutamento</p>`,
	},
	models.StageRejected: {
		Subject: "Atualização sobre a vaga {{jobTitle}}",
		Body: `<p>Olá {{candidateName}},</p>
<p>Agradecemos o seu interesse na vaga <strong>{{jobTitle}}</strong>.</p>
<p>Após análise cuidadosa, decidimos seguir com outros candidatos neste momento. Seu perfil permanece em nosso banco de talentos para futuras oportunidades.</p>
<p>Atenciosamente,<br>Equipe de Recrutamento</p>`,
	},
	models.StageHired: {
		Subject: "Parabéns! Você foi aprovado! - {{jobTitle}}",
		Body: `<p>Olá {{candidateName}},</p>
<p>É com grande satisfação que informamos que você foi <strong>aprovado</strong> para a vaga <strong>{{jobTitle}}</strong>!</p>
<p>Nossa equipe entrará em contato com os próximos passos da contratação.</p>
<p>Atenciosamente,<br>Equipe de Recrutamento</p>`,
	},
}

// renderTemplate replaces {{name}} placeholders with the given values.
func renderTemplate(template string, vars map[string]string) string {
	result := template
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

// templateForStage returns the email template for a stage, if any.
func templateForStage(stage models.Stage) (emailTemplate, bool) {
	tmpl, ok := stageTemplates[stage]
	return tmpl, ok
}
