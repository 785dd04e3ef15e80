package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTelegramURL = "https://api.telegram.org"

var ErrNotConfigured = errors.New("telegram token or chat_id missing")

// TelegramClient 以 Bot API sendMessage 推送摘要。
type TelegramClient struct {
	token      string
	chatID     int64
	prefix     string
	baseURL    string
	httpClient *http.Client
}

func NewTelegramClient(token string, chatID int64, prefix string) *TelegramClient {
	return &TelegramClient{
		token:   token,
		chatID:  chatID,
		prefix:  prefix,
		baseURL: defaultTelegramURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Configured 是否已有 token 與 chat id。
func (c *TelegramClient) Configured() bool {
	return c != nil && c.token != "" && c.chatID != 0
}

type sendMessageRequest struct {
	ChatID                int64  `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage 推送文字訊息；設定 prefix 時加在訊息前。
func (c *TelegramClient) SendMessage(ctx context.Context, text string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if c.prefix != "" {
		text = fmt.Sprintf("[%s] %s", c.prefix, text)
	}
	body, err := json.Marshal(sendMessageRequest{ChatID: c.chatID, Text: text, DisableWebPagePreview: true})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var tr telegramResponse
	_ = json.Unmarshal(raw, &tr)
	if resp.StatusCode >= 300 || !tr.OK {
		msg := tr.Description
		if msg == "" {
			msg = string(raw)
		}
		return fmt.Errorf("telegram send failed status=%d: %s", resp.StatusCode, msg)
	}
	return nil
}
