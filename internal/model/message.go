package model

import (
	"strings"
	"time"
)

// AnnouncementSender 群系统公告消息的发送人展示名。BytesExtra 解出的
// 发送人 token 不足 3 个字符时按公告消息处理。
const AnnouncementSender = "announcement message"

// MinSenderTokenLen 有效发送人 token 的最小长度
const MinSenderTokenLen = 3

// 消息会话分类
const (
	MsgTypeChatRoom = 1 // 群聊消息
	MsgTypeDirect   = 2 // 单聊消息
)

// CREATE TABLE MSG (
// localId INTEGER PRIMARY KEY AUTOINCREMENT,
// TalkerId INT DEFAULT 0,
// MsgSvrID INT,
// Type INT,
// SubType INT,
// IsSender INT,
// CreateTime INT,
// ...
// StrTalker TEXT,
// StrContent TEXT,
// ...
// CompressContent BLOB,
// BytesExtra BLOB,
// BytesTrans BLOB
// )
type MessageV3 struct {
	LocalID         int64  `json:"localId"`
	CreateTime      int64  `json:"CreateTime"` // 10位时间戳
	StrTalker       string `json:"StrTalker"`  // 聊天对象，微信 ID or 群 ID
	IsSender        int    `json:"IsSender"`   // 0 接收消息，1 发送消息
	StrContent      string `json:"StrContent"`
	CompressContent []byte `json:"CompressContent"`
	BytesExtra      []byte `json:"BytesExtra"` // 群聊消息的真实发送人在这里
	BytesTrans      []byte `json:"BytesTrans"`
}

// IsChatRoom 是否群聊消息
func (m *MessageV3) IsChatRoom() bool {
	return strings.Contains(m.StrTalker, ChatRoomSuffix)
}

// SenderToken 从 BytesExtra 的 UTF-8 解码里取第一段连续的
// [A-Za-z0-9_@$-] 字符。解不出可用 token 不算错误，由上层按公告
// 消息兜底。
func SenderToken(b []byte) string {
	s := string(b)
	start := -1
	for i, r := range s {
		if isSenderRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return s[start:i]
		}
	}
	if start >= 0 {
		return s[start:]
	}
	return ""
}

func isSenderRune(r rune) bool {
	return r >= 'a' && r <= 'z' ||
		r >= 'A' && r <= 'Z' ||
		r >= '0' && r <= '9' ||
		r == '_' || r == '-' || r == '@' || r == '$'
}

// ResolveID 返回需要查询展示名的发送人 ID，空串表示不需要查询
// (自己发送的消息、公告消息)。
func (m *MessageV3) ResolveID() string {
	if m.IsSender == 1 {
		return ""
	}
	if !m.IsChatRoom() {
		return m.StrTalker
	}
	token := SenderToken(m.BytesExtra)
	if len(token) < MinSenderTokenLen {
		return ""
	}
	return token
}

// MessageRecord 上报的消息记录
type MessageRecord struct {
	Pusher

	LocalID         int64  `json:"localId"`
	CreateTime      string `json:"createTime"` // YYYY-MM-DD HH:MM:SS
	StrTalker       string `json:"strTalker"`
	Talker          string `json:"talker"` // 真实发送人 ID
	TalkerName      string `json:"talkerName"`
	IsSender        int    `json:"isSender"`
	MsgType         int    `json:"msgType"`
	StrContent      string `json:"strContent"`
	CompressContent string `json:"compressContent"` // 脱敏，恒为空
	BytesExtra      string `json:"bytesExtra"`      // 脱敏，恒为空
	BytesTrans      string `json:"bytesTrans"`      // 脱敏，恒为空
}

// Export 生成上报记录。发送人解析规则:
//   - 自己发送的消息固定使用推送者账号，不看 BytesExtra
//   - 群聊消息取 BytesExtra 的发送人 token，token 过短按公告消息处理
//   - 单聊消息发送人就是 StrTalker
//
// names 为批量解析好的展示名，查不到时回退原始 ID。
func (m *MessageV3) Export(p Pusher, names map[string]string) *MessageRecord {
	rec := &MessageRecord{
		Pusher:          p,
		LocalID:         m.LocalID,
		CreateTime:      time.Unix(m.CreateTime, 0).Format("2006-01-02 15:04:05"),
		StrTalker:       m.StrTalker,
		IsSender:        m.IsSender,
		MsgType:         MsgTypeDirect,
		StrContent:      m.StrContent,
		CompressContent: "",
		BytesExtra:      "",
		BytesTrans:      "",
	}
	if m.IsChatRoom() {
		rec.MsgType = MsgTypeChatRoom
	}

	switch {
	case m.IsSender == 1:
		rec.Talker = p.Account
		rec.TalkerName = p.NickName
	case rec.MsgType == MsgTypeChatRoom:
		token := SenderToken(m.BytesExtra)
		if len(token) < MinSenderTokenLen {
			rec.Talker = ""
			rec.TalkerName = AnnouncementSender
			break
		}
		rec.Talker = token
		rec.TalkerName = displayNameOf(names, token)
	default:
		rec.Talker = m.StrTalker
		rec.TalkerName = displayNameOf(names, m.StrTalker)
	}
	return rec
}

func displayNameOf(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}
