package assistant

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oguzhantopcu/tyasistan/internal/types"
)

// priceBuckets are the TL ranges used in the price distribution section.
var priceBuckets = []struct {
	label string
	min   float64
	max   float64
}{
	{"0-50 TL", 0, 50},
	{"51-100 TL", 51, 100},
	{"101-250 TL", 101, 250},
	{"251-500 TL", 251, 500},
	{"501-1000 TL", 501, 1000},
	{"1000+ TL", 1001, 0},
}

func searchSummary(keyword string, recs []types.ProductRecord, file *types.ExportFile, dur time.Duration, partial bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ **'%s' araması tamamlandı!**\n\n", keyword)
	writeProductStats(&b, recs)
	writeFileFooter(&b, file, dur, partial)
	return b.String()
}

func storeSummary(merchantID string, recs []types.ProductRecord, file *types.ExportFile, dur time.Duration, partial bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ **Mağaza kataloğu çekildi!** (satıcı no: %s)\n\n", merchantID)
	writeProductStats(&b, recs)
	writeFileFooter(&b, file, dur, partial)
	return b.String()
}

func writeProductStats(b *strings.Builder, recs []types.ProductRecord) {
	fmt.Fprintf(b, "**Toplam %d ürün Excel dosyasına kaydedildi.**\n\n", len(recs))

	brands := make(map[string]int)
	categories := make(map[string]int)
	for _, r := range recs {
		if r.Brand != "" {
			brands[r.Brand]++
		}
		if r.Category != "" {
			categories[r.Category]++
		}
	}

	if top := topCounts(brands, 5); len(top) > 0 {
		b.WriteString("**Markalar (ilk 5):**\n")
		for _, t := range top {
			fmt.Fprintf(b, "- %s: %d ürün\n", t.key, t.count)
		}
		b.WriteString("\n")
	}
	if top := topCounts(categories, 5); len(top) > 0 {
		b.WriteString("**Kategoriler (ilk 5):**\n")
		for _, t := range top {
			fmt.Fprintf(b, "- %s: %d ürün\n", t.key, t.count)
		}
		b.WriteString("\n")
	}

	b.WriteString("**Fiyat Dağılımı:**\n")
	for _, bucket := range priceBuckets {
		n := 0
		for _, r := range recs {
			switch {
			case bucket.max == 0:
				if r.Price >= bucket.min {
					n++
				}
			case r.Price >= bucket.min && r.Price <= bucket.max:
				n++
			}
		}
		if n > 0 {
			fmt.Fprintf(b, "- %s: %d ürün\n", bucket.label, n)
		}
	}
	b.WriteString("\n")
}

func reviewSummary(recs []types.ReviewRecord, file *types.ExportFile, dur time.Duration, partial bool) string {
	var b strings.Builder
	b.WriteString("✅ **Yorumlar çekildi!**\n\n")
	fmt.Fprintf(&b, "**Toplam %d yorum Excel dosyasına kaydedildi.**\n\n", len(recs))

	var stars [6]int
	var ratingSum, textLen, elite, influencer, trusted int
	for _, r := range recs {
		if r.Rating >= 1 && r.Rating <= 5 {
			stars[r.Rating]++
			ratingSum += r.Rating
		}
		textLen += utf8.RuneCountInString(r.Text)
		if r.Elite {
			elite++
		}
		if r.Influencer {
			influencer++
		}
		if r.Trusted {
			trusted++
		}
	}
	total := len(recs)

	b.WriteString("**Yıldız Dağılımı:**\n")
	for star := 5; star >= 1; star-- {
		fmt.Fprintf(&b, "- %d ⭐: %d yorum (%%%.1f)\n", star, stars[star], percent(stars[star], total))
	}
	fmt.Fprintf(&b, "\n**Ortalama Puan:** %.2f\n", float64(ratingSum)/float64(max(total, 1)))
	fmt.Fprintf(&b, "**Elite üye yorumu:** %%%.1f\n", percent(elite, total))
	fmt.Fprintf(&b, "**Influencer yorumu:** %%%.1f\n", percent(influencer, total))
	fmt.Fprintf(&b, "**Güvenilir (satın alınmış) yorum:** %%%.1f\n", percent(trusted, total))
	fmt.Fprintf(&b, "**Ortalama yorum uzunluğu:** %d karakter\n\n", textLen/max(total, 1))

	writeFileFooter(&b, file, dur, partial)
	return b.String()
}

func qaSummary(recs []types.QARecord, file *types.ExportFile, dur time.Duration, partial bool) string {
	var b strings.Builder
	b.WriteString("✅ **Soru & Cevaplar çekildi!**\n\n")
	fmt.Fprintf(&b, "**Toplam %d soru Excel dosyasına kaydedildi.**\n\n", len(recs))

	answered := 0
	sellers := make(map[string]int)
	for _, r := range recs {
		if r.Answered() {
			answered++
		}
		if r.Seller != "" {
			sellers[r.Seller]++
		}
	}
	total := len(recs)
	fmt.Fprintf(&b, "**Cevaplanmış:** %d (%%%.1f)\n", answered, percent(answered, total))
	fmt.Fprintf(&b, "**Cevaplanmamış:** %d (%%%.1f)\n\n", total-answered, percent(total-answered, total))

	if top := topCounts(sellers, 5); len(top) > 0 {
		b.WriteString("**En çok soru alan satıcılar:**\n")
		for _, t := range top {
			fmt.Fprintf(&b, "- %s: %d soru\n", t.key, t.count)
		}
		b.WriteString("\n")
	}

	writeFileFooter(&b, file, dur, partial)
	return b.String()
}

func productInfoSummary(info *types.ProductInfo) string {
	var b strings.Builder
	b.WriteString("📦 **Ürün Bilgisi**\n\n")
	fmt.Fprintf(&b, "**Ürün:** %s\n", info.Name)
	if info.Price != "" {
		fmt.Fprintf(&b, "**Fiyat:** %s\n", info.Price)
	}
	if info.Seller != "" {
		fmt.Fprintf(&b, "**Satıcı:** %s\n", info.Seller)
	}
	if info.Rating != "" {
		fmt.Fprintf(&b, "**Puan:** %s\n", info.Rating)
	}
	fmt.Fprintf(&b, "**Link:** %s\n", info.URL)
	return b.String()
}

func writeFileFooter(b *strings.Builder, file *types.ExportFile, dur time.Duration, partial bool) {
	if partial {
		b.WriteString("⚠️ Not: Bazı sayfalar alınamadı, sonuçlar kısmi olabilir.\n\n")
	}
	if file != nil {
		fmt.Fprintf(b, "📁 **Dosya Adı:** %s\n", file.Name)
	}
	fmt.Fprintf(b, "⏱️ Süre: %.1f saniye\n\n", dur.Seconds())
	b.WriteString("**NOT:** Dosyalar 30 dakika sonra otomatik olarak silinecektir, lütfen dosyanızı indirmeyi unutmayın.")
}

type keyCount struct {
	key   string
	count int
}

// topCounts returns the n most frequent keys, ties broken alphabetically
// so summaries stay stable.
func topCounts(m map[string]int, n int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, v := range m {
		out = append(out, keyCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
