package windowsv3

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/sjzar/chatsync/internal/errors"
	"github.com/sjzar/chatsync/internal/model"
	"github.com/sjzar/chatsync/pkg/util"

	_ "github.com/mattn/go-sqlite3"
)

const (
	// ContactFilePattern 联系人数据库固定文件名
	ContactFilePattern = `^MicroMsg\.db$`
	// MessageFilePattern 消息库是目录里解密出来的 .db 文件，取最后一个
	MessageFilePattern = `\.db$`

	contactDBName = "MicroMsg.db"
)

// DataSource 只读访问 v3 数据目录，整个同步期间打开一次
type DataSource struct {
	// 联系人数据库
	contactDBFile string
	contactDB     *sql.DB

	// 消息数据库
	messageDBFile string
	messageDB     *sql.DB
}

// New 创建 DataSource，path 为存放 MicroMsg.db 和解密消息库的目录
func New(path string) (*DataSource, error) {
	ds := &DataSource{}

	if err := ds.initContactDB(path); err != nil {
		return nil, err
	}
	if err := ds.initMessageDB(path); err != nil {
		ds.contactDB.Close()
		return nil, err
	}

	return ds, nil
}

func (ds *DataSource) initContactDB(path string) error {
	files, err := util.FindFilesWithPattern(path, ContactFilePattern)
	if err != nil {
		return errors.DBFileNotFound(path, ContactFilePattern, err)
	}
	if len(files) == 0 {
		return errors.DBFileNotFound(path, ContactFilePattern, nil)
	}

	ds.contactDBFile = files[0]
	ds.contactDB, err = sql.Open("sqlite3", ds.contactDBFile)
	if err != nil {
		return errors.DBConnectFailed(ds.contactDBFile, err)
	}
	return nil
}

func (ds *DataSource) initMessageDB(path string) error {
	files, err := util.FindFilesWithPattern(path, MessageFilePattern)
	if err != nil {
		return errors.DBFileNotFound(path, MessageFilePattern, err)
	}

	// 排除联系人库，剩下的按文件名排序取最后一个，即最新解密出来的库
	candidates := make([]string, 0, len(files))
	for _, file := range files {
		if filepath.Base(file) == contactDBName {
			continue
		}
		candidates = append(candidates, file)
	}
	if len(candidates) == 0 {
		return errors.DBFileNotFound(path, MessageFilePattern, nil)
	}

	ds.messageDBFile = candidates[len(candidates)-1]
	ds.messageDB, err = sql.Open("sqlite3", ds.messageDBFile)
	if err != nil {
		return errors.DBConnectFailed(ds.messageDBFile, err)
	}
	return nil
}

func (ds *DataSource) count(ctx context.Context, db *sql.DB, table string) (int, error) {
	var total int
	row := db.QueryRowContext(ctx, `SELECT count(1) FROM `+table)
	if err := row.Scan(&total); err != nil {
		return 0, errors.CountFailed(table, err)
	}
	return total, nil
}

// CountContacts 联系人总数，同步开始时查询一次，之后不再刷新
func (ds *DataSource) CountContacts(ctx context.Context) (int, error) {
	return ds.count(ctx, ds.contactDB, "Contact")
}

func (ds *DataSource) CountChatRooms(ctx context.Context) (int, error) {
	return ds.count(ctx, ds.contactDB, "ChatRoom")
}

func (ds *DataSource) CountChatRoomInfos(ctx context.Context) (int, error) {
	return ds.count(ctx, ds.contactDB, "ChatRoomInfo")
}

func (ds *DataSource) CountMessages(ctx context.Context) (int, error) {
	return ds.count(ctx, ds.messageDB, "MSG")
}

// GetContacts 按 UserName 排序分页获取联系人
func (ds *DataSource) GetContacts(ctx context.Context, limit, offset int) ([]*model.ContactV3, error) {
	query := `SELECT UserName, Alias, Remark, NickName, Type, VerifyFlag, ChatRoomNotify, ExtraBuf
            FROM Contact
            ORDER BY UserName
            LIMIT ? OFFSET ?`

	rows, err := ds.contactDB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, errors.QueryFailed(query, err)
	}
	defer rows.Close()

	contacts := []*model.ContactV3{}
	for rows.Next() {
		var contact model.ContactV3
		var alias, remark, nickName sql.NullString
		err := rows.Scan(
			&contact.UserName,
			&alias,
			&remark,
			&nickName,
			&contact.Type,
			&contact.VerifyFlag,
			&contact.ChatRoomNotify,
			&contact.ExtraBuf,
		)
		if err != nil {
			return nil, errors.ScanRowFailed(err)
		}
		contact.Alias = alias.String
		contact.Remark = remark.String
		contact.NickName = nickName.String
		contacts = append(contacts, &contact)
	}
	return contacts, rows.Err()
}

// GetContactsIn 按 UserName 集合批量查询联系人，使用占位符绑定参数，
// 空集合直接返回，不发起查询
func (ds *DataSource) GetContactsIn(ctx context.Context, userNames []string) ([]*model.ContactV3, error) {
	if len(userNames) == 0 {
		return []*model.ContactV3{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(userNames)), ",")
	query := `SELECT UserName, Alias, Remark, NickName, Type, VerifyFlag, ChatRoomNotify, ExtraBuf
            FROM Contact
            WHERE UserName IN (` + placeholders + `)`

	args := make([]interface{}, 0, len(userNames))
	for _, name := range userNames {
		args = append(args, name)
	}

	rows, err := ds.contactDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.QueryFailed(query, err)
	}
	defer rows.Close()

	contacts := []*model.ContactV3{}
	for rows.Next() {
		var contact model.ContactV3
		var alias, remark, nickName sql.NullString
		err := rows.Scan(
			&contact.UserName,
			&alias,
			&remark,
			&nickName,
			&contact.Type,
			&contact.VerifyFlag,
			&contact.ChatRoomNotify,
			&contact.ExtraBuf,
		)
		if err != nil {
			return nil, errors.ScanRowFailed(err)
		}
		contact.Alias = alias.String
		contact.Remark = remark.String
		contact.NickName = nickName.String
		contacts = append(contacts, &contact)
	}
	return contacts, rows.Err()
}

// GetChatRooms 按 ChatRoomName 排序分页获取群聊
func (ds *DataSource) GetChatRooms(ctx context.Context, limit, offset int) ([]*model.ChatRoomV3, error) {
	query := `SELECT ChatRoomName, UserNameList, Reserved2, RoomData
            FROM ChatRoom
            ORDER BY ChatRoomName
            LIMIT ? OFFSET ?`

	rows, err := ds.contactDB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, errors.QueryFailed(query, err)
	}
	defer rows.Close()

	chatRooms := []*model.ChatRoomV3{}
	for rows.Next() {
		var chatRoom model.ChatRoomV3
		var userNameList, reserved2 sql.NullString
		err := rows.Scan(
			&chatRoom.ChatRoomName,
			&userNameList,
			&reserved2,
			&chatRoom.RoomData,
		)
		if err != nil {
			return nil, errors.ScanRowFailed(err)
		}
		chatRoom.UserNameList = userNameList.String
		chatRoom.Reserved2 = reserved2.String
		chatRooms = append(chatRooms, &chatRoom)
	}
	return chatRooms, rows.Err()
}

// GetChatRoomInfos 按 ChatRoomName 排序分页获取群公告
func (ds *DataSource) GetChatRoomInfos(ctx context.Context, limit, offset int) ([]*model.ChatRoomInfoV3, error) {
	query := `SELECT ChatRoomName, Announcement
            FROM ChatRoomInfo
            ORDER BY ChatRoomName
            LIMIT ? OFFSET ?`

	rows, err := ds.contactDB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, errors.QueryFailed(query, err)
	}
	defer rows.Close()

	infos := []*model.ChatRoomInfoV3{}
	for rows.Next() {
		var info model.ChatRoomInfoV3
		var announcement sql.NullString
		if err := rows.Scan(&info.ChatRoomName, &announcement); err != nil {
			return nil, errors.ScanRowFailed(err)
		}
		info.Announcement = announcement.String
		infos = append(infos, &info)
	}
	return infos, rows.Err()
}

// GetMessages 按 localId 排序分页获取消息
func (ds *DataSource) GetMessages(ctx context.Context, limit, offset int) ([]*model.MessageV3, error) {
	query := `SELECT localId, CreateTime, StrTalker, IsSender, StrContent,
            CompressContent, BytesExtra, BytesTrans
        FROM MSG
        ORDER BY localId
        LIMIT ? OFFSET ?`

	rows, err := ds.messageDB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, errors.QueryFailed(query, err)
	}
	defer rows.Close()

	messages := []*model.MessageV3{}
	for rows.Next() {
		var msg model.MessageV3
		var strTalker, strContent sql.NullString
		err := rows.Scan(
			&msg.LocalID,
			&msg.CreateTime,
			&strTalker,
			&msg.IsSender,
			&strContent,
			&msg.CompressContent,
			&msg.BytesExtra,
			&msg.BytesTrans,
		)
		if err != nil {
			return nil, errors.ScanRowFailed(err)
		}
		msg.StrTalker = strTalker.String
		msg.StrContent = strContent.String
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

// Close 关闭数据库连接
func (ds *DataSource) Close() error {
	var errs []error
	if ds.contactDB != nil {
		if err := ds.contactDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if ds.messageDB != nil {
		if err := ds.messageDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.DBCloseFailed(errs[0])
	}
	return nil
}
