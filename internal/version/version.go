// 包 version：构建信息注入点；通过 -ldflags 在发布时覆盖
package version

var Commit = "dev"
