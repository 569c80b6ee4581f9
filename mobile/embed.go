//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// mobile/data/overlay.yaml 是根目录 data/overlay.yaml 的副本，修改配置时两处需同步。
package mobile

import "embed"

//go:embed data/overlay.yaml
var dataFS embed.FS
