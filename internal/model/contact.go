package model

import "strings"

// 联系人分类
const (
	ContactTypeFriend          = 1 // 好友
	ContactTypeChatRoom        = 2 // 群聊
	ContactTypeChatRoomMember  = 3 // 群聊成员(非好友)
	ContactTypeOfficialAccount = 4 // 公众号
)

// ChatRoomSuffix 群聊 ID 后缀
const ChatRoomSuffix = "@chatroom"

// CREATE TABLE Contact(
// UserName TEXT PRIMARY KEY ,
// Alias TEXT,
// EncryptUserName TEXT,
// DelFlag INTEGER DEFAULT 0,
// Type INTEGER DEFAULT 0,
// VerifyFlag INTEGER DEFAULT 0,
// ...
// Remark TEXT,
// NickName TEXT,
// ...
// ChatRoomNotify INTEGER DEFAULT 0,
// ...
// ExtraBuf BLOB,
// ...
// )
type ContactV3 struct {
	UserName       string `json:"UserName"`
	Alias          string `json:"Alias"`
	Remark         string `json:"Remark"`
	NickName       string `json:"NickName"`
	Type           int    `json:"Type"`
	VerifyFlag     int    `json:"VerifyFlag"` // 非 0 为公众号
	ChatRoomNotify int    `json:"ChatRoomNotify"`
	ExtraBuf       []byte `json:"ExtraBuf"`
}

// Class 联系人分类，(VerifyFlag, Type, ChatRoomNotify, UserName) 的纯函数
func (c *ContactV3) Class() int {
	if c.VerifyFlag != 0 {
		return ContactTypeOfficialAccount
	}
	switch {
	case c.Type == 2 || c.Type == 268435458 ||
		c.ChatRoomNotify == 1 ||
		strings.Contains(c.UserName, ChatRoomSuffix):
		return ContactTypeChatRoom
	case c.Type == 4:
		return ContactTypeChatRoomMember
	}
	return ContactTypeFriend
}

// DisplayName 备注优先于昵称
func (c *ContactV3) DisplayName() string {
	switch {
	case c.Remark != "":
		return c.Remark
	case c.NickName != "":
		return c.NickName
	}
	return ""
}

// ContactRecord 上报的联系人记录
type ContactRecord struct {
	Pusher

	UserName string `json:"userName"`
	Alias    string `json:"alias"`
	Remark   string `json:"remark"`
	NickName string `json:"nickName"`
	Type     int    `json:"type"`
	ExtraBuf string `json:"extraBuf"` // 脱敏，恒为空
}

// Export 生成上报记录，ExtraBuf 脱敏置空
func (c *ContactV3) Export(p Pusher) *ContactRecord {
	return &ContactRecord{
		Pusher:   p,
		UserName: c.UserName,
		Alias:    c.Alias,
		Remark:   c.Remark,
		NickName: c.NickName,
		Type:     c.Class(),
		ExtraBuf: "",
	}
}
