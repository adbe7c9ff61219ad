/*
Tài liệu kỹ thuật cho GitHub Trending Crawler

1. Tổng quan

Crawler thu thập danh sách repository trên trang https://github.com/trending theo từng khoảng
thời gian (daily, weekly, monthly) và từng ngôn ngữ, bổ sung thông tin qua GitHub GraphQL API,
rồi lưu thành các file CSV theo ngày trong thư mục archive.

2. Kiến trúc

- trending: tạo URL, tải và phân tích HTML trang trending (goquery)
- github_api: gộp cả trang thành một truy vấn GraphQL "repo:a/b repo:c/d "
- archive: Buffer gom record theo (since, ngôn ngữ), Archiver ghi CSV (+ parquet nếu bật)
- crawler: Module chính, chạy lần lượt mọi tổ hợp (since, filter)
- scheduler, publisher: chạy crawl mỗi giờ, cứ 3 giờ commit + push thư mục archive

3. Quy trình một lần crawl

3.1 Trang trending
- Filter gồm "all", danh sách ngôn ngữ phổ biến trong config và "chinese" (spoken_language_code=zh)
- Số sao mới không đọc được thì là 0, tên repository không đúng dạng owner/name bị bỏ

3.2 GraphQL
- Một request cho mỗi trang, header Authorization: bearer <token>
- Phản hồi có "errors" thì bỏ cả trang và log lại
- Node không khớp với dòng nào trên trang bị bỏ qua

3.3 Lưu trữ
- daily -> YYYY/MM/DD, weekly -> <năm ISO>/<tuần ISO>, monthly -> YYYY/MM, tính theo giờ UTC lúc ghi
- Header CSV: id,name,lang,new_stars
- Record không có ngôn ngữ nằm trong file ".csv"
- Nếu bật Kafka, mỗi record còn được gửi lên topic để consumer ghi vào MySQL
- Nếu bật object store, các file vừa ghi được mirror lên bucket

4. Xử lý lỗi

- Lỗi mạng hoặc status khác 200 của một trang: log và bỏ qua trang đó, không retry
- Lỗi ghi file: dừng lần flush và trả lỗi
- Lỗi git khi publish: log Result, lần sau thử lại theo lịch
*/

package crawler
