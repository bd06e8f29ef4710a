package main

// 进程退出码
const (
	ExitSuccess     = 0 // 成功
	ExitError       = 1 // 一般错误（参数错误、运行失败）
	ExitConfigError = 2 // 配置错误
	ExitDataError   = 3 // 表单数据错误（无法解析或验证不通过）
)
