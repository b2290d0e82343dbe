package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ToolsHandler 提供 MCP 工具清单。
type ToolsHandler struct{}

// NewToolsHandler 创建一个新的 ToolsHandler 实例。
func NewToolsHandler() *ToolsHandler {
	return &ToolsHandler{}
}

// toolDescriptor 描述一个可被模型调用的工具及其参数 schema。
type toolDescriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// mcpTools 是对外暴露的工具清单，和路由一一对应。
var mcpTools = []toolDescriptor{
	{
		Name:        "create_chat_session",
		Description: "Cria uma nova sessão de chat para um usuário",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"user_id":   map[string]interface{}{"type": "string", "description": "ID único do usuário"},
				"user_data": map[string]interface{}{"type": "object", "description": "Dados do usuário (nome, telefone, etc.)"},
				"platform":  map[string]interface{}{"type": "string", "description": "Plataforma de origem (whatsapp, telegram, etc.)"},
			},
			"required": []string{"user_id"},
		},
	},
	{
		Name:        "get_user_context",
		Description: "Busca o contexto histórico do usuário para personalizar respostas",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"user_id":           map[string]interface{}{"type": "string", "description": "ID único do usuário"},
				"include_history":   map[string]interface{}{"type": "boolean", "description": "Incluir histórico de conversas"},
				"max_conversations": map[string]interface{}{"type": "integer", "description": "Limite de conversas recentes"},
			},
			"required": []string{"user_id"},
		},
	},
	{
		Name:        "save_conversation",
		Description: "Salva uma conversa completa com análise de intenção",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"session_id": map[string]interface{}{"type": "string", "description": "ID da sessão"},
				"user_id":    map[string]interface{}{"type": "string", "description": "ID do usuário"},
				"messages":   map[string]interface{}{"type": "array", "description": "Array de mensagens da conversa"},
				"metadata":   map[string]interface{}{"type": "object", "description": "Metadados adicionais"},
			},
			"required": []string{"session_id", "user_id", "messages"},
		},
	},
	{
		Name:        "update_user_profile",
		Description: "Atualiza o perfil do usuário com informações coletadas durante a conversa",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"user_id":        map[string]interface{}{"type": "string", "description": "ID único do usuário"},
				"profile_data":   map[string]interface{}{"type": "object", "description": "Dados do perfil a serem atualizados"},
				"merge_strategy": map[string]interface{}{"type": "string", "description": "merge, replace ou append"},
			},
			"required": []string{"user_id", "profile_data"},
		},
	},
	{
		Name:        "get_conversation_analytics",
		Description: "Retorna análises das conversas para insights do chatbot",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"user_id":    map[string]interface{}{"type": "string", "description": "ID do usuário (opcional)"},
				"date_range": map[string]interface{}{"type": "object", "description": "Período para análise"},
				"metrics":    map[string]interface{}{"type": "array", "description": "Métricas específicas a retornar"},
			},
		},
	},
}

// List 返回全部工具描述。
func (h *ToolsHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": mcpTools})
}
