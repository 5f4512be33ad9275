package model

// Pusher 推送者身份信息，每条上报记录都会携带这四个字段
type Pusher struct {
	Account  string `mapstructure:"account" json:"pusherAccount"`
	NickName string `mapstructure:"nickname" json:"pusherNickName"`
	Mobile   string `mapstructure:"mobile" json:"pusherMobile"`
	Key      string `mapstructure:"key" json:"pusherKey"`
}
