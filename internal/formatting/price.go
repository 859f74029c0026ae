package formatting

import "fmt"

// FormatPrice форматирует цену без копеек, если они равны 0
func FormatPrice(price float64) string {
	if price == float64(int64(price)) {
		return fmt.Sprintf("%.0f ₽", price)
	}
	return fmt.Sprintf("%.2f ₽", price)
}

// PsychologistShare - доля психолога от цены сессии
func PsychologistShare(price, percent float64) float64 {
	return price * percent / 100
}

// PluralizeSessions возвращает правильное склонение слова "сессия"
func PluralizeSessions(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "сессия"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "сессии"
	}
	return "сессий"
}

// PluralizeSlots возвращает правильное склонение слова "слот"
func PluralizeSlots(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "слот"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "слота"
	}
	return "слотов"
}
