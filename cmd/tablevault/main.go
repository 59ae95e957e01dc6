// Package main 启动应用程序
package main

import "github.com/yeisme/tablevault/pkg/cmd"

//	@title			TableVault API
//	@version		1.0
//	@description	TableVault 是一个表格数据存储与分析服务，提供用户注册、登录、文件上传、后台统计分析与结果查询等功能。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
