package windowsv3

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

// newFixture 在临时目录里构造一个最小的 v3 数据目录:
// MicroMsg.db + 两个解密消息库，消息数据只在最后一个库里
func newFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	micro, err := sql.Open("sqlite3", filepath.Join(dir, "MicroMsg.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer micro.Close()

	stmts := []string{
		`CREATE TABLE Contact(
			UserName TEXT PRIMARY KEY,
			Alias TEXT,
			Remark TEXT,
			NickName TEXT,
			Type INTEGER DEFAULT 0,
			VerifyFlag INTEGER DEFAULT 0,
			ChatRoomNotify INTEGER DEFAULT 0,
			ExtraBuf BLOB
		)`,
		`CREATE TABLE ChatRoom(
			ChatRoomName TEXT PRIMARY KEY,
			UserNameList TEXT,
			Reserved2 TEXT,
			RoomData BLOB
		)`,
		`CREATE TABLE ChatRoomInfo(
			ChatRoomName TEXT PRIMARY KEY,
			Announcement TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := micro.Exec(stmt); err != nil {
			t.Fatal(err)
		}
	}

	contacts := []struct {
		userName, alias, remark, nickName string
		typ, verifyFlag, chatRoomNotify   int
		extraBuf                          []byte
	}{
		{"12345@chatroom", "", "项目群", "group", 2, 0, 1, nil},
		{"gh_news", "", "", "news", 1, 24, 0, nil},
		{"wxid_a", "alias_a", "阿A", "a", 1, 0, 0, []byte{0x01}},
		{"wxid_b", "", "", "b", 4, 0, 0, nil},
		{"wxid_c", "", "", "c", 1, 0, 0, nil},
	}
	for _, c := range contacts {
		_, err := micro.Exec(
			`INSERT INTO Contact(UserName, Alias, Remark, NickName, Type, VerifyFlag, ChatRoomNotify, ExtraBuf)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.userName, c.alias, c.remark, c.nickName, c.typ, c.verifyFlag, c.chatRoomNotify, c.extraBuf)
		if err != nil {
			t.Fatal(err)
		}
	}
	// NULL 列也要能扫描
	if _, err := micro.Exec(`INSERT INTO Contact(UserName) VALUES ('wxid_null')`); err != nil {
		t.Fatal(err)
	}

	if _, err := micro.Exec(
		`INSERT INTO ChatRoom(ChatRoomName, UserNameList, Reserved2, RoomData)
		 VALUES ('12345@chatroom', 'wxid_a^Gwxid_b^Gwxid_gone', 'wxid_a', X'0A10')`); err != nil {
		t.Fatal(err)
	}
	if _, err := micro.Exec(`INSERT INTO ChatRoom(ChatRoomName) VALUES ('67890@chatroom')`); err != nil {
		t.Fatal(err)
	}
	if _, err := micro.Exec(
		`INSERT INTO ChatRoomInfo(ChatRoomName, Announcement) VALUES ('12345@chatroom', '本周五发版')`); err != nil {
		t.Fatal(err)
	}

	msgSchema := `CREATE TABLE MSG(
		localId INTEGER PRIMARY KEY AUTOINCREMENT,
		CreateTime INT,
		StrTalker TEXT,
		IsSender INT,
		StrContent TEXT,
		CompressContent BLOB,
		BytesExtra BLOB,
		BytesTrans BLOB
	)`

	// 旧的解密库，不应被选中
	stale, err := sql.Open("sqlite3", filepath.Join(dir, "de_MSG0.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := stale.Exec(msgSchema); err != nil {
		t.Fatal(err)
	}
	stale.Close()

	msg, err := sql.Open("sqlite3", filepath.Join(dir, "de_MSG1.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer msg.Close()
	if _, err := msg.Exec(msgSchema); err != nil {
		t.Fatal(err)
	}
	rows := []struct {
		createTime int64
		strTalker  string
		isSender   int
		content    string
		bytesExtra []byte
	}{
		{1577836800, "12345@chatroom", 0, "hello", []byte("\x1a\x0ewxid_a\x00")},
		{1577836801, "12345@chatroom", 1, "hi", nil},
		{1577836802, "wxid_a", 0, "dm", nil},
	}
	for _, r := range rows {
		_, err := msg.Exec(
			`INSERT INTO MSG(CreateTime, StrTalker, IsSender, StrContent, CompressContent, BytesExtra, BytesTrans)
			 VALUES (?, ?, ?, ?, NULL, ?, NULL)`,
			r.createTime, r.strTalker, r.isSender, r.content, r.bytesExtra)
		if err != nil {
			t.Fatal(err)
		}
	}

	return dir
}

func TestNewPicksLastMessageDB(t *testing.T) {
	ds, err := New(newFixture(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ds.Close()

	if filepath.Base(ds.messageDBFile) != "de_MSG1.db" {
		t.Errorf("message db = %s, want de_MSG1.db", ds.messageDBFile)
	}

	total, err := ds.CountMessages(context.Background())
	if err != nil {
		t.Fatalf("CountMessages() error = %v", err)
	}
	if total != 3 {
		t.Errorf("CountMessages() = %d, want 3", total)
	}
}

func TestNewMissingContactDB(t *testing.T) {
	if _, err := New(t.TempDir()); err == nil {
		t.Fatal("New() on empty dir: expected error")
	}
}

func TestCounts(t *testing.T) {
	ds, err := New(newFixture(t))
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()

	ctx := context.Background()
	tests := []struct {
		name  string
		count func(context.Context) (int, error)
		want  int
	}{
		{"contacts", ds.CountContacts, 6},
		{"chatrooms", ds.CountChatRooms, 2},
		{"chatroominfos", ds.CountChatRoomInfos, 1},
		{"messages", ds.CountMessages, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.count(ctx)
			if err != nil {
				t.Fatalf("count error = %v", err)
			}
			if got != tt.want {
				t.Errorf("count = %d, want %d", got, tt.want)
			}
		})
	}
}

// 分页拼接结果必须与一次性全量读取一致
func TestGetContactsPagination(t *testing.T) {
	ds, err := New(newFixture(t))
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	ctx := context.Background()

	all, err := ds.GetContacts(ctx, 100, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 6 {
		t.Fatalf("got %d contacts, want 6", len(all))
	}

	paged := make([]string, 0, len(all))
	for offset := 0; offset < len(all); offset += 2 {
		page, err := ds.GetContacts(ctx, 2, offset)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range page {
			paged = append(paged, c.UserName)
		}
	}
	for i, c := range all {
		if paged[i] != c.UserName {
			t.Fatalf("page concat diverges at %d: got %s, want %s", i, paged[i], c.UserName)
		}
	}

	// NULL 列扫描成空串
	for _, c := range all {
		if c.UserName == "wxid_null" {
			if c.Alias != "" || c.Remark != "" || c.NickName != "" || len(c.ExtraBuf) != 0 {
				t.Errorf("null columns not empty: %+v", c)
			}
		}
	}
}

func TestGetContactsIn(t *testing.T) {
	ds, err := New(newFixture(t))
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	ctx := context.Background()

	// 空集合不发起查询
	contacts, err := ds.GetContactsIn(ctx, nil)
	if err != nil {
		t.Fatalf("GetContactsIn(nil) error = %v", err)
	}
	if len(contacts) != 0 {
		t.Errorf("got %d contacts for empty set, want 0", len(contacts))
	}

	// 未匹配的 ID 静默忽略，重复 ID 可容忍
	contacts, err = ds.GetContactsIn(ctx, []string{"wxid_a", "wxid_gone", "wxid_b", "wxid_a"})
	if err != nil {
		t.Fatalf("GetContactsIn() error = %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("got %d contacts, want 2", len(contacts))
	}
}

func TestGetChatRooms(t *testing.T) {
	ds, err := New(newFixture(t))
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()

	rooms, err := ds.GetChatRooms(context.Background(), 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rooms) != 2 {
		t.Fatalf("got %d rooms, want 2", len(rooms))
	}
	if rooms[0].UserNameList != "wxid_a^Gwxid_b^Gwxid_gone" {
		t.Errorf("UserNameList = %q", rooms[0].UserNameList)
	}
	if rooms[0].Reserved2 != "wxid_a" {
		t.Errorf("Reserved2 = %q", rooms[0].Reserved2)
	}
	if len(rooms[0].RoomData) == 0 {
		t.Error("RoomData blob not scanned")
	}
	// NULL 列
	if rooms[1].UserNameList != "" || rooms[1].Reserved2 != "" {
		t.Errorf("null columns not empty: %+v", rooms[1])
	}
}

func TestGetChatRoomInfos(t *testing.T) {
	ds, err := New(newFixture(t))
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()

	infos, err := ds.GetChatRoomInfos(context.Background(), 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 {
		t.Fatalf("got %d infos, want 1", len(infos))
	}
	if infos[0].Announcement != "本周五发版" {
		t.Errorf("Announcement = %q", infos[0].Announcement)
	}
}

func TestGetMessages(t *testing.T) {
	ds, err := New(newFixture(t))
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()

	msgs, err := ds.GetMessages(context.Background(), 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[0].LocalID >= msgs[1].LocalID || msgs[1].LocalID >= msgs[2].LocalID {
		t.Error("messages not ordered by localId")
	}
	if msgs[0].StrTalker != "12345@chatroom" || msgs[0].IsSender != 0 {
		t.Errorf("row fields wrong: %+v", msgs[0])
	}
	if len(msgs[0].BytesExtra) == 0 {
		t.Error("BytesExtra blob not scanned")
	}
	if msgs[1].CompressContent != nil && len(msgs[1].CompressContent) != 0 {
		t.Errorf("NULL blob scanned as %v", msgs[1].CompressContent)
	}
}
