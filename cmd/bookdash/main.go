// bookdash 图书仪表盘
//
// 子命令:
//
//	serve    启动仪表盘页面和JSON API
//	list     打印一页图书
//	add      新增图书
//	update   整体更新图书
//	delete   删除图书
//	events   订阅图书变更事件
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
