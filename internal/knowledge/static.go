package knowledge

import (
	"fmt"
	"strings"
)

// DealershipInfo describes the dealership group itself.
type DealershipInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
	About   string `json:"about"`
}

// BrandInfo holds per-brand showroom metadata.
type BrandInfo struct {
	Name          string   `json:"name"`
	Specialties   []string `json:"specialties"`
	PopularModels []string `json:"popular_models"`
	Location      string   `json:"location"`
	Tone          string   `json:"tone"`
}

// Hours maps day groups to opening hours for one department.
type Hours struct {
	Weekday  string `json:"weekday"`
	Saturday string `json:"saturday"`
	Sunday   string `json:"sunday"`
}

var info = DealershipInfo{
	Name:    "Jack Ingram Motors",
	Address: "1000 Eastern Blvd, Montgomery, AL 36117",
	Phone:   "(334) 277-5700",
	Website: "https://www.jackingram.com/",
	About: "Jack Ingram Motors is Montgomery's premier automotive dealership, " +
		"serving Central Alabama since 1959. We represent six luxury and mainstream " +
		"brands, providing exceptional sales and service experiences.",
}

var hours = map[string]Hours{
	"sales":   {Weekday: "9:00 AM - 7:00 PM", Saturday: "9:00 AM - 6:00 PM", Sunday: "Closed"},
	"service": {Weekday: "7:30 AM - 6:00 PM", Saturday: "8:00 AM - 5:00 PM", Sunday: "Closed"},
}

var brands = map[string]BrandInfo{
	"audi": {
		Name:          "Audi Montgomery",
		Specialties:   []string{"German luxury vehicles", "Performance cars", "SUVs"},
		PopularModels: []string{"A4", "Q5", "Q7", "e-tron"},
		Location:      "Dedicated Audi showroom on Eastern Blvd",
		Tone:          "sophisticated, tech-forward, premium",
	},
	"mercedes": {
		Name:          "Mercedes-Benz of Montgomery",
		Specialties:   []string{"Luxury vehicles", "Executive cars", "AMG performance"},
		PopularModels: []string{"C-Class", "E-Class", "GLE", "S-Class"},
		Location:      "Exclusive Mercedes-Benz facility",
		Tone:          "luxurious, prestigious, refined",
	},
	"nissan": {
		Name:          "Jack Ingram Nissan",
		Specialties:   []string{"Family vehicles", "Sedans", "SUVs", "Trucks"},
		PopularModels: []string{"Altima", "Rogue", "Titan", "Frontier"},
		Location:      "Main dealership campus",
		Tone:          "practical, reliable, value-focused",
	},
	"porsche": {
		Name:          "Porsche of Montgomery",
		Specialties:   []string{"Sports cars", "Performance SUVs", "Luxury vehicles"},
		PopularModels: []string{"911", "Cayenne", "Macan", "Taycan"},
		Location:      "Dedicated Porsche showroom",
		Tone:          "performance-oriented, exclusive, passionate",
	},
	"volkswagen": {
		Name:          "Jack Ingram Volkswagen",
		Specialties:   []string{"German engineering", "Family cars", "SUVs"},
		PopularModels: []string{"Jetta", "Tiguan", "Atlas", "ID.4"},
		Location:      "Main dealership campus",
		Tone:          "practical, engineered, accessible",
	},
	"volvo": {
		Name:          "Jack Ingram Volvo",
		Specialties:   []string{"Safety technology", "Luxury SUVs", "Wagons"},
		PopularModels: []string{"XC90", "XC60", "S60", "V60"},
		Location:      "Main dealership campus",
		Tone:          "safety-focused, scandinavian, sustainable",
	},
}

var services = map[string][]string{
	"sales": {
		"New vehicle sales", "Pre-owned vehicle sales", "Certified Pre-owned programs",
		"Fleet sales", "Vehicle customization", "Trade-in appraisals", "Financing options",
	},
	"service": {
		"Factory authorized service", "Express service", "Collision repair",
		"Parts department", "Tire center", "Detailing services", "Loaner vehicles",
	},
	"specials": {
		"New vehicle specials", "Service specials", "Parts specials",
		"Seasonal promotions", "Military discounts", "College graduate programs",
	},
}

// Info returns the core dealership record.
func Info() DealershipInfo { return info }

// Brand returns the showroom metadata for a make, if known.
func Brand(make string) (BrandInfo, bool) {
	b, ok := brands[strings.ToLower(make)]
	return b, ok
}

// Brands returns every brand record keyed by make.
func Brands() map[string]BrandInfo {
	out := make(map[string]BrandInfo, len(brands))
	for k, v := range brands {
		out[k] = v
	}
	return out
}

// BrandTone returns the response tone for a brand, with a neutral default
// for unknown makes.
func BrandTone(make string) string {
	if b, ok := brands[strings.ToLower(make)]; ok {
		return b.Tone
	}
	return "professional and helpful"
}

// BrandModels returns the popular models for a brand, nil when unknown.
func BrandModels(make string) []string {
	if b, ok := brands[strings.ToLower(make)]; ok {
		return b.PopularModels
	}
	return nil
}

// DepartmentHours returns raw hours for a department (sales or service).
func DepartmentHours(department string) (Hours, bool) {
	h, ok := hours[strings.ToLower(department)]
	return h, ok
}

// FormatHours renders one department's hours as display text.
func FormatHours(department string) string {
	h, ok := hours[strings.ToLower(department)]
	if !ok {
		return "Please call for hours"
	}
	title := strings.ToUpper(department[:1]) + strings.ToLower(department[1:])
	return fmt.Sprintf("%s Hours:\nMonday-Friday: %s\nSaturday: %s\nSunday: %s",
		title, h.Weekday, h.Saturday, h.Sunday)
}

// Services returns the offering list for a kind (sales, service, specials).
func Services(kind string) []string {
	return services[strings.ToLower(kind)]
}

// Answer builds the formatted reply for a static-knowledge category.
// An empty return means the category is not answerable statically and the
// caller should fall through to the normal pipeline.
func Answer(category, make string) string {
	switch category {
	case "hours":
		return FormatHours("sales") + "\n\n" + FormatHours("service")
	case "location":
		if b, ok := Brand(make); ok {
			return fmt.Sprintf("%s is located at: %s. Main campus: %s", b.Name, b.Location, info.Address)
		}
		return fmt.Sprintf("You can find us at %s.", info.Address)
	case "contact":
		return fmt.Sprintf("Call us at %s or visit %s.", info.Phone, info.Website)
	case "services":
		var sb strings.Builder
		sb.WriteString("We offer:\n")
		for _, kind := range []string{"sales", "service", "specials"} {
			sb.WriteString("\n" + strings.ToUpper(kind[:1]) + kind[1:] + ":\n")
			for _, s := range services[kind] {
				sb.WriteString("- " + s + "\n")
			}
		}
		return sb.String()
	default:
		return ""
	}
}
