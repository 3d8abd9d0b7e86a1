package nominatim

import "strings"

// settlementMarkers - признаки населенного пункта в свободном тексте адреса
// реестра: деревня, агрогородок, город, поселок, село
var settlementMarkers = []string{"д.", "аг.", "г.", "п.", "село"}

// AddressVariants строит упорядоченный список кандидатов для геокодирования,
// от точного к грубому:
//  1. полный адрес со страной;
//  2. части с населенным пунктом + область + страна;
//  3. последняя такая часть + область + страна.
//
// Свободные адреса реестра непоследовательны, и одиночный запрос попадает
// редко; грубые варианты меняют точность на процент попаданий - результат
// по варианту 3 даст центр населенного пункта, а не здание.
func AddressVariants(rawAddress, region, country string) []string {
	parts := make([]string, 0)
	for _, p := range strings.Split(rawAddress, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	variants := []string{rawAddress + ", " + country}

	var simplified []string
	for _, part := range parts {
		for _, marker := range settlementMarkers {
			if strings.Contains(part, marker) {
				simplified = append(simplified, part)
				break
			}
		}
	}
	if len(simplified) > 0 {
		suffix := ", " + region + ", " + country
		variants = append(variants, strings.Join(simplified, ", ")+suffix)
		variants = append(variants, simplified[len(simplified)-1]+suffix)
	}

	return variants
}
