package agentdirectory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

// Client клиент справочника агентов
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента справочника агентов
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetAgent получает тариф и квоты агента
// Ошибка недоступности не подменяется значениями по умолчанию: без тарифа оценку не считаем
func (c *Client) GetAgent(ctx context.Context, agentID string) (*domain.Agent, error) {
	endpoint := fmt.Sprintf("%s/internal/agents/%s", c.baseURL, url.PathEscape(agentID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("AgentDirectory request failed for agent_id=%s: %v", agentID, err)
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		c.log.Warn("Agent not found in directory: agent_id=%s", agentID)
		return nil, ErrAgentNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var agent Agent
	if err := json.NewDecoder(resp.Body).Decode(&agent); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if agent.ID == "" {
		agent.ID = agentID
	}

	c.log.Info("Fetched agent agent_id=%s tier=%s", agent.ID, agent.Tier)
	return agent.ToDomain(), nil
}
