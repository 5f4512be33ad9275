package model

import "strings"

// UserNameListSep 群成员列表分隔符，导出的库里可能被归一化成换行
const UserNameListSep = "^G"

// CREATE TABLE ChatRoom(
// ChatRoomName TEXT PRIMARY KEY,
// UserNameList TEXT,
// DisplayNameList TEXT,
// ChatRoomFlag int Default 0,
// Owner INTEGER DEFAULT 0,
// IsShowName INTEGER DEFAULT 0,
// SelfDisplayName TEXT,
// Reserved1 INTEGER DEFAULT 0,
// Reserved2 TEXT,
// ...
// RoomData BLOB,
// ...
// )
type ChatRoomV3 struct {
	ChatRoomName string `json:"ChatRoomName"`
	UserNameList string `json:"UserNameList"`
	Reserved2    string `json:"Reserved2"` // 群主/关联账号
	RoomData     []byte `json:"RoomData"`
}

// MemberIDs 按原始顺序返回成员 ID 列表
func (c *ChatRoomV3) MemberIDs() []string {
	return SplitUserNameList(c.UserNameList)
}

// SplitUserNameList 拆分成员列表，兼容 ^G 与换行两种分隔
func SplitUserNameList(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, UserNameListSep, "\n")
	parts := strings.Split(s, "\n")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

// ChatRoomRecord 上报的群聊记录
type ChatRoomRecord struct {
	Pusher

	ChatRoomName string `json:"chatRoomName"`
	NickName     string `json:"nickName"` // 群名称，备注优先
	Owner        string `json:"reserved2"`
	OwnerName    string `json:"reserved2NickName"`
	UserNameList string `json:"userNameList"`
	RoomData     string `json:"roomData"` // 脱敏，恒为空
}

// Export 生成上报记录，RoomData 脱敏置空。displayName 与 ownerName
// 由调用方批量解析，未解析到时回退到原始 ID。
func (c *ChatRoomV3) Export(p Pusher, displayName, ownerName string) *ChatRoomRecord {
	if displayName == "" {
		displayName = c.ChatRoomName
	}
	if ownerName == "" {
		ownerName = c.Reserved2
	}
	return &ChatRoomRecord{
		Pusher:       p,
		ChatRoomName: c.ChatRoomName,
		NickName:     displayName,
		Owner:        c.Reserved2,
		OwnerName:    ownerName,
		UserNameList: c.UserNameList,
		RoomData:     "",
	}
}

// CREATE TABLE ChatRoomInfo(
// ChatRoomName TEXT PRIMARY KEY,
// Announcement TEXT,
// InfoVersion INTEGER DEFAULT 0,
// AnnouncementEditor TEXT,
// AnnouncementPublishTime INTEGER DEFAULT 0,
// ChatRoomStatus INTEGER DEFAULT 0
// )
type ChatRoomInfoV3 struct {
	ChatRoomName string `json:"ChatRoomName"`
	Announcement string `json:"Announcement"`
}

// ChatRoomInfoRecord 上报的群公告记录
type ChatRoomInfoRecord struct {
	Pusher

	ChatRoomName string `json:"chatRoomName"`
	Announcement string `json:"announcement"`
}

func (c *ChatRoomInfoV3) Export(p Pusher) *ChatRoomInfoRecord {
	return &ChatRoomInfoRecord{
		Pusher:       p,
		ChatRoomName: c.ChatRoomName,
		Announcement: c.Announcement,
	}
}

// ChatRoomMemberRecord 上报的群成员记录，(群, 成员) 一条
type ChatRoomMemberRecord struct {
	Pusher

	ChatRoomName string `json:"chatRoomName"`
	RoomNickName string `json:"chatRoomNickName"`
	UserName     string `json:"userName"`
	Alias        string `json:"alias"`
	NickName     string `json:"nickName"`
	Remark       string `json:"remark"`
}

// ExportMembers 拆分成员列表并与联系人表连接，只有能解析到联系人的
// 成员才会产生记录，未匹配的 ID 静默丢弃。
func ExportMembers(room *ChatRoomV3, roomName string, contacts map[string]*ContactV3, p Pusher) []*ChatRoomMemberRecord {
	if roomName == "" {
		roomName = room.ChatRoomName
	}
	ids := room.MemberIDs()
	records := make([]*ChatRoomMemberRecord, 0, len(ids))
	for _, id := range ids {
		contact, ok := contacts[id]
		if !ok {
			continue
		}
		records = append(records, &ChatRoomMemberRecord{
			Pusher:       p,
			ChatRoomName: room.ChatRoomName,
			RoomNickName: roomName,
			UserName:     contact.UserName,
			Alias:        contact.Alias,
			NickName:     contact.NickName,
			Remark:       contact.Remark,
		})
	}
	return records
}
