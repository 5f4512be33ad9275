package model

import (
	"testing"
	"time"
)

func TestSenderToken(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{name: "nil", input: nil, want: ""},
		{name: "empty", input: []byte{}, want: ""},
		{
			name:  "leading protobuf framing",
			input: append([]byte{0x1a, 0x0e, 0x08, 0x01, 0x12}, []byte("wxid_abc123")...),
			want:  "wxid_abc123",
		},
		{
			name:  "stops at first non token rune",
			input: []byte("wxid_abc\x00garbage"),
			want:  "wxid_abc",
		},
		{
			name:  "dash at dollar allowed",
			input: []byte("\x08a-b@c$d\x10"),
			want:  "a-b@c$d",
		},
		{name: "no token runes", input: []byte{0x00, 0x01, 0x02}, want: ""},
		{
			name:  "multibyte prefix skipped",
			input: []byte("中文wxid_x"),
			want:  "wxid_x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SenderToken(tt.input); got != tt.want {
				t.Errorf("SenderToken(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMessageExportTalker(t *testing.T) {
	pusher := Pusher{Account: "wxid_op", NickName: "operator"}

	tests := []struct {
		name       string
		msg        MessageV3
		wantTalker string
		wantName   string
		wantType   int
	}{
		{
			// 自己发送的消息固定使用推送者身份，无视 BytesExtra
			name: "self sent",
			msg: MessageV3{
				StrTalker:  "12345@chatroom",
				IsSender:   1,
				BytesExtra: []byte("wxid_other"),
			},
			wantTalker: "wxid_op",
			wantName:   "operator",
			wantType:   MsgTypeChatRoom,
		},
		{
			name: "chatroom message with decoded sender",
			msg: MessageV3{
				StrTalker:  "12345@chatroom",
				IsSender:   0,
				BytesExtra: []byte("\x1a\x0ewxid_abc\x00xxx"),
			},
			wantTalker: "wxid_abc",
			wantName:   "阿强",
			wantType:   MsgTypeChatRoom,
		},
		{
			name: "chatroom sender without display name falls back to id",
			msg: MessageV3{
				StrTalker:  "12345@chatroom",
				BytesExtra: []byte("wxid_nobody"),
			},
			wantTalker: "wxid_nobody",
			wantName:   "wxid_nobody",
			wantType:   MsgTypeChatRoom,
		},
		{
			// token 不足 3 字符按公告消息处理
			name: "announcement fallback",
			msg: MessageV3{
				StrTalker:  "12345@chatroom",
				BytesExtra: []byte{0x08, 'a', 'b', 0x00},
			},
			wantTalker: "",
			wantName:   AnnouncementSender,
			wantType:   MsgTypeChatRoom,
		},
		{
			name: "announcement fallback empty extra",
			msg: MessageV3{
				StrTalker: "12345@chatroom",
			},
			wantTalker: "",
			wantName:   AnnouncementSender,
			wantType:   MsgTypeChatRoom,
		},
		{
			name: "direct message",
			msg: MessageV3{
				StrTalker:  "wxid_abc",
				BytesExtra: []byte("wxid_should_be_ignored_here"),
			},
			wantTalker: "wxid_abc",
			wantName:   "阿强",
			wantType:   MsgTypeDirect,
		},
	}

	names := map[string]string{"wxid_abc": "阿强"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.msg.Export(pusher, names)
			if rec.Talker != tt.wantTalker {
				t.Errorf("Talker = %q, want %q", rec.Talker, tt.wantTalker)
			}
			if rec.TalkerName != tt.wantName {
				t.Errorf("TalkerName = %q, want %q", rec.TalkerName, tt.wantName)
			}
			if rec.MsgType != tt.wantType {
				t.Errorf("MsgType = %d, want %d", rec.MsgType, tt.wantType)
			}
		})
	}
}

func TestMessageExportRedaction(t *testing.T) {
	pusher := Pusher{Account: "wxid_op"}
	msg := MessageV3{
		LocalID:         42,
		CreateTime:      1577836800,
		StrTalker:       "wxid_abc",
		StrContent:      "hello",
		CompressContent: []byte("compressed"),
		BytesExtra:      []byte("wxid_sender"),
		BytesTrans:      []byte("trans"),
	}

	rec := msg.Export(pusher, nil)
	if rec.CompressContent != "" || rec.BytesExtra != "" || rec.BytesTrans != "" {
		t.Errorf("blobs not redacted: %+v", rec)
	}

	want := time.Unix(1577836800, 0).Format("2006-01-02 15:04:05")
	if rec.CreateTime != want {
		t.Errorf("CreateTime = %q, want %q", rec.CreateTime, want)
	}
	if rec.LocalID != 42 || rec.StrContent != "hello" {
		t.Errorf("fields not carried over: %+v", rec)
	}

	// nil blob 同样脱敏
	msg.CompressContent, msg.BytesExtra, msg.BytesTrans = nil, nil, nil
	rec = msg.Export(pusher, nil)
	if rec.CompressContent != "" || rec.BytesExtra != "" || rec.BytesTrans != "" {
		t.Errorf("nil blobs not redacted: %+v", rec)
	}
}

func TestMessageResolveID(t *testing.T) {
	tests := []struct {
		name string
		msg  MessageV3
		want string
	}{
		{name: "self sent needs no lookup", msg: MessageV3{IsSender: 1, StrTalker: "wxid_abc"}, want: ""},
		{name: "direct uses talker", msg: MessageV3{StrTalker: "wxid_abc"}, want: "wxid_abc"},
		{
			name: "chatroom uses token",
			msg:  MessageV3{StrTalker: "1@chatroom", BytesExtra: []byte("wxid_abc")},
			want: "wxid_abc",
		},
		{
			name: "announcement needs no lookup",
			msg:  MessageV3{StrTalker: "1@chatroom", BytesExtra: []byte("ab")},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.ResolveID(); got != tt.want {
				t.Errorf("ResolveID() = %q, want %q", got, tt.want)
			}
		})
	}
}
