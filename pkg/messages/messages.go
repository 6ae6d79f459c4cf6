// Package messages holds the copy shown to guild members.
package messages

const (
	// ErrUserErrorProcessing is shown when an interaction fails for an internal reason.
	ErrUserErrorProcessing = "Ocorreu um erro ao processar sua solicitação. Tente novamente mais tarde."

	ErrGuildOnly        = "Isso só funciona no servidor."
	ErrInvalidChannel   = "Canal inválido."
	ErrInvalidCategory  = "Categoria de ticket inválida."
	ErrAdminOnly        = "Você precisa ser administrador para usar este comando."
	ErrDuplicateSupport = "Você já possui um ticket de suporte aberto."
	ErrDuplicateTicket  = "Você já possui um ticket dessa categoria aberto."
	ErrTicketNotFound   = "Ticket não encontrado no banco."
	ErrCannotClose      = "Você não pode fechar este ticket."
	ErrTicketCreate     = "Erro ao criar ticket: %s"
	ErrRoleCreate       = "Não consegui criar o cargo de verificação."
	ErrRoleAssign       = "Falha ao aplicar o cargo. Verifique permissões do bot."

	TicketCreated   = "Ticket criado com sucesso! ✅ <#%s>"
	TicketClosing   = "Fechando ticket e gerando transcrição…"
	Verified        = "Você foi verificado com sucesso ✅"
	AlreadyVerified = "Você já está verificado."

	StaffRoleSet    = "✅ Cargo de staff definido: <@&%s>"
	LogChannelSet   = "✅ Canal de logs definido: <#%s>"
	PanelChannelSet = "✅ Canal do painel definido: <#%s>"

	UsageSetupStaff = "Uso: `%ssetup_staff @Cargo`"
	UsageSetupLogs  = "Uso: `%ssetup_logs #canal`"
	UsageSetupPanel = "Uso: `%ssetup_panel [#canal]`"

	// Help is the help text. It takes the command prefix once per command.
	Help = "**Comandos (Admin do servidor):**\n" +
		"- `%[1]ssetup_staff @Cargo` → define o cargo de quem atende tickets\n" +
		"- `%[1]ssetup_logs #canal` → define onde o bot envia logs e transcrições\n" +
		"- `%[1]ssetup_panel #canal` → define onde você quer postar os painéis\n" +
		"- `%[1]spost_ticket` → posta o painel de tickets\n" +
		"- `%[1]spost_verificar` → posta o painel de verificação\n" +
		"- `%[1]sticket_stats` → mostra os tickets abertos por categoria\n\n" +
		"**Uso (membros):**\n" +
		"- Abra um ticket no painel e aguarde atendimento.\n" +
		"- Para fechar, clique em **Fechar** (dono do ticket ou staff).\n"

	TicketPanelTitle       = "🎫 Sistema de Tickets"
	TicketPanelDescription = "Use o botão para abrir ticket de suporte ou escolha uma categoria no menu."
	TicketPanelPlaceholder = "Selecione o ticket que deseja!"
	OpenSupportLabel       = "Abrir ticket (Suporte)"
	CloseLabel             = "Fechar"

	VerifyPanelTitle       = "✅ Verificação"
	VerifyPanelDescription = "Clique no botão para se verificar e receber acesso aos canais."
	VerifyLabel            = "Verificar"

	TicketIntroDescription = "Olá %s! Seu ticket foi criado.\n\n✅ Aguarde atendimento da equipe.\n🔒 Para fechar, clique em **Fechar**."
	TicketFooter           = "KiraBot - Ticket System"

	StatsTitle = "📊 Tickets abertos"

	AuditTicketCreated       = "✅ Ticket criado: <#%s> | cat=%s | user=%s (%s)"
	AuditTicketCreateFailed  = "❌ Erro ao criar ticket (%s) para %s: %s"
	AuditTranscriptAttached  = "📌 Transcrição anexada abaixo."
	AuditChannelDeleteFailed = "⚠️ Não consegui deletar o canal `%s`. Verifique permissões."
	AuditVerified            = "✅ Verificação: %s (%s) recebeu %s"
	AuditRoleCreateFailed    = "❌ Erro ao criar cargo verificado: %s"
	AuditRoleAssignFailed    = "❌ Erro ao dar cargo verificado: %s"

	TicketClosedTitle = "🔒 Ticket fechado"
	FieldChannel      = "Canal"
	FieldCategory     = "Categoria"
	FieldOpenedAt     = "Aberto em"
	FieldClosedBy     = "Fechado por"
	FieldOwner        = "Dono"
)
