package configs

import "github.com/spf13/viper"

const (
	DefaultSMTPEnabled = false            // 默认不发送邮件
	DefaultSMTPHost    = "localhost"      // 默认SMTP主机
	DefaultSMTPPort    = 587              // 默认SMTP端口
	DefaultSMTPFrom    = "no-reply@tablevault.local"
)

// SMTPConfig 邮件发送配置，用于验证邮件和密码重置邮件.
type SMTPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"     rule:"hostname"`
	Port     int    `mapstructure:"port"     rule:"min=1,max=65535"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

func (c *SMTPConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("smtp.enabled", DefaultSMTPEnabled)
	v.SetDefault("smtp.host", DefaultSMTPHost)
	v.SetDefault("smtp.port", DefaultSMTPPort)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", DefaultSMTPFrom)
}
