package sync

import (
	"context"

	"github.com/sjzar/chatsync/internal/chatsync/conf"
	"github.com/sjzar/chatsync/internal/model"
	"github.com/sjzar/chatsync/internal/wechatdb"
)

// Service 串行调度五个子管道。顺序固定:
// 群聊 → 群公告 → 联系人 → 群成员 → 消息，
// 每个子管道完整跑完所有分页后才进入下一个，任何提取/转换错误
// 立即终止整个运行。
type Service struct {
	conf   *conf.SyncConfig
	db     *wechatdb.DB
	sender Sender
}

func NewService(conf *conf.SyncConfig, db *wechatdb.DB, sender Sender) *Service {
	return &Service{
		conf:   conf,
		db:     db,
		sender: sender,
	}
}

func (s *Service) Run(ctx context.Context) error {
	if err := run(ctx, s.chatRoomStage(), s.sender); err != nil {
		return err
	}
	if err := run(ctx, s.chatRoomInfoStage(), s.sender); err != nil {
		return err
	}
	if err := run(ctx, s.contactStage(), s.sender); err != nil {
		return err
	}
	if err := run(ctx, s.memberStage(), s.sender); err != nil {
		return err
	}
	return run(ctx, s.messageStage(), s.sender)
}

func (s *Service) chatRoomStage() stage[*model.ChatRoomV3, *model.ChatRoomRecord] {
	return stage[*model.ChatRoomV3, *model.ChatRoomRecord]{
		kind:     "chatroom",
		pageSize: s.conf.BatchSize,
		count:    s.db.CountChatRooms,
		fetch:    s.db.ChatRooms,
		export:   s.exportChatRooms,
	}
}

// exportChatRooms 批量解析群名称和群主展示名后逐行转换
func (s *Service) exportChatRooms(ctx context.Context, rooms []*model.ChatRoomV3) ([]*model.ChatRoomRecord, error) {
	ids := make([]string, 0, 2*len(rooms))
	for _, room := range rooms {
		ids = append(ids, room.ChatRoomName)
		if room.Reserved2 != "" {
			ids = append(ids, room.Reserved2)
		}
	}
	names, err := s.db.DisplayNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	records := make([]*model.ChatRoomRecord, 0, len(rooms))
	for _, room := range rooms {
		records = append(records, room.Export(s.conf.Pusher, names[room.ChatRoomName], names[room.Reserved2]))
	}
	return records, nil
}

func (s *Service) chatRoomInfoStage() stage[*model.ChatRoomInfoV3, *model.ChatRoomInfoRecord] {
	return stage[*model.ChatRoomInfoV3, *model.ChatRoomInfoRecord]{
		kind:     "chatroominfo",
		pageSize: s.conf.BatchSize,
		count:    s.db.CountChatRoomInfos,
		fetch:    s.db.ChatRoomInfos,
		export: func(ctx context.Context, infos []*model.ChatRoomInfoV3) ([]*model.ChatRoomInfoRecord, error) {
			records := make([]*model.ChatRoomInfoRecord, 0, len(infos))
			for _, info := range infos {
				records = append(records, info.Export(s.conf.Pusher))
			}
			return records, nil
		},
	}
}

func (s *Service) contactStage() stage[*model.ContactV3, *model.ContactRecord] {
	return stage[*model.ContactV3, *model.ContactRecord]{
		kind:     "contact",
		pageSize: s.conf.BatchSize,
		count:    s.db.CountContacts,
		fetch:    s.db.Contacts,
		export: func(ctx context.Context, contacts []*model.ContactV3) ([]*model.ContactRecord, error) {
			records := make([]*model.ContactRecord, 0, len(contacts))
			for _, contact := range contacts {
				records = append(records, contact.Export(s.conf.Pusher))
			}
			return records, nil
		},
	}
}

// memberStage 群成员是派生数据：按群聊分页，每页把成员列表拆开
// 再与联系人表连接
func (s *Service) memberStage() stage[*model.ChatRoomV3, *model.ChatRoomMemberRecord] {
	return stage[*model.ChatRoomV3, *model.ChatRoomMemberRecord]{
		kind:     "chatroommember",
		pageSize: s.conf.BatchSize,
		count:    s.db.CountChatRooms,
		fetch:    s.db.ChatRooms,
		export:   s.exportMembers,
	}
}

func (s *Service) exportMembers(ctx context.Context, rooms []*model.ChatRoomV3) ([]*model.ChatRoomMemberRecord, error) {
	memberIDs := make([]string, 0)
	roomIDs := make([]string, 0, len(rooms))
	for _, room := range rooms {
		roomIDs = append(roomIDs, room.ChatRoomName)
		memberIDs = append(memberIDs, room.MemberIDs()...)
	}

	contacts, err := s.db.ContactsByUserName(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	roomNames, err := s.db.DisplayNames(ctx, roomIDs)
	if err != nil {
		return nil, err
	}

	records := make([]*model.ChatRoomMemberRecord, 0, len(memberIDs))
	for _, room := range rooms {
		records = append(records, model.ExportMembers(room, roomNames[room.ChatRoomName], contacts, s.conf.Pusher)...)
	}
	return records, nil
}

func (s *Service) messageStage() stage[*model.MessageV3, *model.MessageRecord] {
	return stage[*model.MessageV3, *model.MessageRecord]{
		kind:     "message",
		pageSize: s.conf.MsgBatchSize,
		count:    s.db.CountMessages,
		fetch:    s.db.Messages,
		export:   s.exportMessages,
	}
}

// exportMessages 先收集本页需要解析展示名的发送人 ID，一次批量
// 查询后再逐条转换
func (s *Service) exportMessages(ctx context.Context, msgs []*model.MessageV3) ([]*model.MessageRecord, error) {
	ids := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if id := msg.ResolveID(); id != "" {
			ids = append(ids, id)
		}
	}
	names, err := s.db.DisplayNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	records := make([]*model.MessageRecord, 0, len(msgs))
	for _, msg := range msgs {
		records = append(records, msg.Export(s.conf.Pusher, names))
	}
	return records, nil
}
