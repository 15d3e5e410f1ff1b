package did

import "flight-api/internal/geo"

// Prefecture：都道府県の静的包围盒
type Prefecture struct {
    Code string
    Name string
    BBox geo.BBox // minLng, minLat, maxLng, maxLat
}

// 文档注释：47 都道府県の近似包围盒
// 背景：人口集中地区データは都道府県単位で配布されるため、座標→県コードの粗い解決が入口になる；
//       境界付近では複数の箱に重なり得るが、北から南の順で最初に一致した県を採用する。
// 约束：離島（小笠原等）は本土箱から外れる場合があり未解決となる；未解決は安全側（isDID=false）に倒す。
var prefectures = []Prefecture{
    {Code: "01", Name: "北海道", BBox: geo.BBox{139.30, 41.30, 148.90, 45.60}},
    {Code: "02", Name: "青森県", BBox: geo.BBox{139.90, 40.20, 141.70, 41.60}},
    {Code: "03", Name: "岩手県", BBox: geo.BBox{140.65, 38.70, 142.10, 40.45}},
    {Code: "05", Name: "秋田県", BBox: geo.BBox{139.65, 38.85, 141.00, 40.60}},
    {Code: "04", Name: "宮城県", BBox: geo.BBox{140.27, 37.77, 141.70, 39.00}},
    {Code: "06", Name: "山形県", BBox: geo.BBox{139.50, 37.70, 140.65, 39.10}},
    {Code: "07", Name: "福島県", BBox: geo.BBox{139.15, 36.80, 141.05, 38.00}},
    {Code: "15", Name: "新潟県", BBox: geo.BBox{137.60, 36.70, 139.90, 38.60}},
    {Code: "08", Name: "茨城県", BBox: geo.BBox{139.70, 35.75, 140.85, 36.95}},
    {Code: "09", Name: "栃木県", BBox: geo.BBox{139.30, 36.20, 140.30, 37.15}},
    {Code: "10", Name: "群馬県", BBox: geo.BBox{138.40, 35.98, 139.65, 37.06}},
    {Code: "11", Name: "埼玉県", BBox: geo.BBox{138.70, 35.75, 139.90, 36.28}},
    {Code: "12", Name: "千葉県", BBox: geo.BBox{139.73, 34.90, 140.90, 36.10}},
    {Code: "13", Name: "東京都", BBox: geo.BBox{138.90, 35.50, 139.95, 35.90}},
    {Code: "14", Name: "神奈川県", BBox: geo.BBox{138.90, 35.10, 139.80, 35.68}},
    {Code: "16", Name: "富山県", BBox: geo.BBox{136.75, 36.25, 137.75, 36.98}},
    {Code: "17", Name: "石川県", BBox: geo.BBox{136.25, 36.00, 137.40, 37.60}},
    {Code: "18", Name: "福井県", BBox: geo.BBox{135.45, 35.35, 136.85, 36.30}},
    {Code: "19", Name: "山梨県", BBox: geo.BBox{138.20, 35.15, 139.15, 35.97}},
    {Code: "20", Name: "長野県", BBox: geo.BBox{137.30, 35.20, 138.75, 37.03}},
    {Code: "21", Name: "岐阜県", BBox: geo.BBox{136.25, 35.13, 137.65, 36.47}},
    {Code: "22", Name: "静岡県", BBox: geo.BBox{137.47, 34.60, 139.20, 35.65}},
    {Code: "23", Name: "愛知県", BBox: geo.BBox{136.65, 34.55, 137.85, 35.43}},
    {Code: "24", Name: "三重県", BBox: geo.BBox{135.85, 33.70, 136.99, 35.26}},
    {Code: "25", Name: "滋賀県", BBox: geo.BBox{135.76, 34.79, 136.46, 35.70}},
    {Code: "26", Name: "京都府", BBox: geo.BBox{134.85, 34.70, 136.06, 35.78}},
    {Code: "27", Name: "大阪府", BBox: geo.BBox{135.09, 34.27, 135.75, 35.05}},
    {Code: "28", Name: "兵庫県", BBox: geo.BBox{134.25, 34.15, 135.47, 35.68}},
    {Code: "29", Name: "奈良県", BBox: geo.BBox{135.54, 33.85, 136.23, 34.78}},
    {Code: "30", Name: "和歌山県", BBox: geo.BBox{135.00, 33.43, 136.01, 34.38}},
    {Code: "31", Name: "鳥取県", BBox: geo.BBox{133.13, 35.05, 134.52, 35.62}},
    {Code: "32", Name: "島根県", BBox: geo.BBox{131.67, 34.30, 133.39, 36.36}},
    {Code: "33", Name: "岡山県", BBox: geo.BBox{133.26, 34.30, 134.45, 35.35}},
    {Code: "34", Name: "広島県", BBox: geo.BBox{132.03, 34.03, 133.47, 35.10}},
    {Code: "35", Name: "山口県", BBox: geo.BBox{130.77, 33.71, 132.50, 34.80}},
    {Code: "36", Name: "徳島県", BBox: geo.BBox{133.66, 33.53, 134.82, 34.25}},
    {Code: "37", Name: "香川県", BBox: geo.BBox{133.45, 34.01, 134.44, 34.56}},
    {Code: "38", Name: "愛媛県", BBox: geo.BBox{132.00, 32.90, 133.69, 34.30}},
    {Code: "39", Name: "高知県", BBox: geo.BBox{132.48, 32.70, 134.31, 33.88}},
    {Code: "40", Name: "福岡県", BBox: geo.BBox{129.98, 33.00, 131.19, 34.25}},
    {Code: "41", Name: "佐賀県", BBox: geo.BBox{129.74, 32.95, 130.54, 33.62}},
    {Code: "42", Name: "長崎県", BBox: geo.BBox{128.60, 32.57, 130.40, 34.73}},
    {Code: "43", Name: "熊本県", BBox: geo.BBox{129.97, 32.09, 131.33, 33.20}},
    {Code: "44", Name: "大分県", BBox: geo.BBox{130.82, 32.71, 132.08, 33.74}},
    {Code: "45", Name: "宮崎県", BBox: geo.BBox{130.70, 31.36, 131.88, 32.84}},
    {Code: "46", Name: "鹿児島県", BBox: geo.BBox{128.40, 27.00, 131.20, 32.31}},
    {Code: "47", Name: "沖縄県", BBox: geo.BBox{122.90, 24.00, 131.33, 27.90}},
}

// IdentifyPrefecture：座標から県を解決（最初に一致した箱を採用）
func IdentifyPrefecture(lat, lng float64) (Prefecture, bool) {
    pt := geo.Point{Lat: lat, Lng: lng}
    for _, p := range prefectures {
        if geo.InBBox(pt, p.BBox) { return p, true }
    }
    return Prefecture{}, false
}

// Prefectures：参照用の読み取り専用ビュー
func Prefectures() []Prefecture { return prefectures }
