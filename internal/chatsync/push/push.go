package push

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/chatsync/internal/errors"
)

// Client 负责把转换好的分页记录投递到上报服务。
// 单页投递失败只记录日志并丢弃该页，不做重试；无论成败每页之后
// 都等待固定间隔，限制对上报服务的请求速率。
type Client struct {
	url    string
	delay  time.Duration
	runID  string
	client *http.Client
}

func New(baseURL, path string, delayMs int64, runID string) *Client {
	return &Client{
		url:    baseURL + path,
		delay:  time.Duration(delayMs) * time.Millisecond,
		runID:  runID,
		client: &http.Client{Timeout: time.Second * 30},
	}
}

// Page 一次投递的分页及其进度信息
type Page struct {
	Kind  string // 实体类型
	Page  int    // 页号，从 1 开始
	Pages int    // 总页数
	Sent  int    // 含本页在内累计记录数
	Total int    // 实体总记录数
	Count int    // 本页记录数
	List  any    // 转换后的记录列表
}

type payload struct {
	RunID string `json:"runId"`
	Kind  string `json:"kind"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
	List  any    `json:"list"`
}

// Send 序列化并投递一页记录，之后等待固定间隔。
// 响应体不解析，只记录日志。
func (c *Client) Send(ctx context.Context, p Page) {
	defer c.wait()

	body, err := json.Marshal(payload{
		RunID: c.runID,
		Kind:  p.Kind,
		Page:  p.Page,
		Pages: p.Pages,
		List:  p.List,
	})
	if err != nil {
		log.Error().Err(errors.PushFailed(c.url, err)).Msg("marshal page failed")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(body))
	if err != nil {
		log.Error().Err(errors.PushFailed(c.url, err)).Msg("build request failed")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// 投递失败该页作废，继续下一页
		log.Error().Err(errors.PushFailed(c.url, err)).
			Str("run_id", c.runID).Str("kind", p.Kind).Int("page", p.Page).Msg("page dropped")
		return
	}
	defer resp.Body.Close()

	ret, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Error().Err(errors.PushStatus(c.url, resp.StatusCode)).
			Str("run_id", c.runID).Str("kind", p.Kind).Int("page", p.Page).Msg("page dropped")
		return
	}

	log.Info().
		Str("run_id", c.runID).
		Str("kind", p.Kind).
		Int("count", p.Count).
		Int("page", p.Page).
		Int("pages", p.Pages).
		Int("progress", Progress(p.Sent, p.Total)).
		Msgf("page pushed, resp: %s", string(ret))
}

func (c *Client) wait() {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
}

// Progress 进度百分比，ceil(sent/total*100)，封顶 100
func Progress(sent, total int) int {
	if total <= 0 {
		return 100
	}
	p := (sent*100 + total - 1) / total
	if p > 100 {
		p = 100
	}
	return p
}
