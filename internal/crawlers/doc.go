// Package crawlers 提供文本爬取的各个组件
//
// # 核心组件
//
// ## PageFetcher
//
// 基于Colly的抓取器。每个URL只发起一次GET请求,不重试;
// 传输失败、超时、非200状态或空响应体都返回 models.Absent,而不是error。
//
//	fetcher := NewPageFetcher(FetcherConfig{Timeout: 5 * time.Second}, headerProvider)
//	result := fetcher.Fetch(ctx, "https://example.com")
//	if result.Found() { /* result.Content */ }
//
// ## CleanText
//
// 将原始HTML清洗为纯文本的正则流水线(顺序敏感):
//  1. 删除 script 和 style 块
//  2. 删除注释
//  3. <br> 转换为换行
//  4. </p> 转换为换行
//  5. 其余标签替换为空格
//  6. 删除 .leftflex0 这类点号加含数字单词的残留
//  7. 删除字母、数字、下划线、空白和 ,.!? 以外的字符
//  8. 空白折叠为单个空格并去掉首尾空白
//
// 这不是HTML解析器,对不规范的标记可能多删或少删。
//
// ## URLExtractor
//
// 只匹配 href 中以 http:// 或 https:// 开头的链接,按首次出现顺序去重,
// 然后取中间一段: offset = len/2, 返回 links[offset : offset+limit]。
//
//	extractor := NewURLExtractor(2)
//	links := extractor.ExtractLinks(rawHTML, pageURL)
//
// ## URLQueue
//
// Frontier与已访问集合。入队不去重,同一URL可多次排队,
// 出队后由驱动循环根据已访问集合决定是否跳过。
//
// ## ResourceMonitor
//
// 使用gopsutil周期性采样系统内存和CPU,供进度日志输出。
package crawlers
