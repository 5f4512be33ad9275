package wechatdb

import (
	"context"

	"github.com/sjzar/chatsync/internal/model"
	"github.com/sjzar/chatsync/internal/wechatdb/datasource/windowsv3"
)

// DB 是同步管道对数据源的唯一入口，只读
type DB struct {
	path string
	ds   *windowsv3.DataSource
}

func New(path string) (*DB, error) {
	ds, err := windowsv3.New(path)
	if err != nil {
		return nil, err
	}
	return &DB{path: path, ds: ds}, nil
}

func (db *DB) CountContacts(ctx context.Context) (int, error) {
	return db.ds.CountContacts(ctx)
}

func (db *DB) CountChatRooms(ctx context.Context) (int, error) {
	return db.ds.CountChatRooms(ctx)
}

func (db *DB) CountChatRoomInfos(ctx context.Context) (int, error) {
	return db.ds.CountChatRoomInfos(ctx)
}

func (db *DB) CountMessages(ctx context.Context) (int, error) {
	return db.ds.CountMessages(ctx)
}

func (db *DB) Contacts(ctx context.Context, limit, offset int) ([]*model.ContactV3, error) {
	return db.ds.GetContacts(ctx, limit, offset)
}

func (db *DB) ChatRooms(ctx context.Context, limit, offset int) ([]*model.ChatRoomV3, error) {
	return db.ds.GetChatRooms(ctx, limit, offset)
}

func (db *DB) ChatRoomInfos(ctx context.Context, limit, offset int) ([]*model.ChatRoomInfoV3, error) {
	return db.ds.GetChatRoomInfos(ctx, limit, offset)
}

func (db *DB) Messages(ctx context.Context, limit, offset int) ([]*model.MessageV3, error) {
	return db.ds.GetMessages(ctx, limit, offset)
}

// ContactsByUserName 按 ID 集合批量查询联系人，返回 map 方便连接，
// 空集合不发起查询
func (db *DB) ContactsByUserName(ctx context.Context, userNames []string) (map[string]*model.ContactV3, error) {
	ret := make(map[string]*model.ContactV3, len(userNames))
	if len(userNames) == 0 {
		return ret, nil
	}
	contacts, err := db.ds.GetContactsIn(ctx, userNames)
	if err != nil {
		return nil, err
	}
	for _, contact := range contacts {
		ret[contact.UserName] = contact
	}
	return ret, nil
}

// DisplayNames 批量解析展示名，备注优先于昵称。允许重复 ID，
// 查不到的 ID 不出现在结果里，由调用方自行兜底。
func (db *DB) DisplayNames(ctx context.Context, userNames []string) (map[string]string, error) {
	names := make(map[string]string, len(userNames))
	if len(userNames) == 0 {
		return names, nil
	}
	contacts, err := db.ds.GetContactsIn(ctx, userNames)
	if err != nil {
		return nil, err
	}
	for _, contact := range contacts {
		if name := contact.DisplayName(); name != "" {
			names[contact.UserName] = name
		}
	}
	return names, nil
}

func (db *DB) Close() error {
	if db.ds == nil {
		return nil
	}
	return db.ds.Close()
}
