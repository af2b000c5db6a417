package domain

import "strconv"

// Supported document languages
const (
	LangSpanish    = "Español"
	LangEnglish    = "Inglés"
	LangDutch      = "Holandes"
	LangPapiamento = "Papiamento"

	DefaultLanguage = LangSpanish
)

// Languages lists the selectable languages in menu order
var Languages = []string{LangSpanish, LangEnglish, LangDutch, LangPapiamento}

// TextBundle holds the default texts a language change writes into the document
type TextBundle struct {
	Terms            string
	Intro            string
	Subtitle         string
	QuotationNoLabel string
	Title            string
}

// Labels are the fixed captions of the rendered document
type Labels struct {
	Date           string
	Client         string
	Subtotal       string
	SubtotalNet    string
	Discount       string
	Total          string
	Conditions     string
	PaymentAccount string
	Observations   string
	Attachments    string
	Description    string
	Quantity       string
	UnitPrice      string
	ItemTotal      string

	// zone form vocabulary
	General string
	Floor   string
}

var textBundles = map[string]TextBundle{
	LangSpanish: {
		Terms:            "• Vigencia de la cotización: 30 días calendario.\n• El costo total incluye impuestos, importación, materiales /productos e instalación.\n• Condiciones de pago: 50% anticipo, 50% contra entrega.",
		Intro:            "Esta cotización comprende la venta e instalación de las cortinas acordadas en la visita de asesoría:",
		Subtitle:         "Persianas, Toldos & Cortinas",
		QuotationNoLabel: "Cotización No",
		Title:            "COTIZACIÓN",
	},
	LangEnglish: {
		Terms:            "• Quotation validity: 30 calendar days.\n• Total cost includes taxes, import duties, materials/products, and installation.\n• Payment terms: 50% down payment, 50% upon delivery.",
		Intro:            "This quotation includes the sale and installation of curtains as agreed during the advisory visit:",
		Subtitle:         "Blinds, Shades & Curtains",
		QuotationNoLabel: "Quotation No",
		Title:            "QUOTATION",
	},
	LangDutch: {
		Terms:            "• Geldigheid van de offerte: 30 kalenderdagen.\n• De totale kosten zijn inclusief belastingen, import, materialen/producten en installatie.\n• Betalingsvoorwaarden: 50% aanbetaling, 50% bij levering.",
		Intro:            "Deze offerte omvat de verkoop en installatie van de gordijnen zoals afgesproken tijdens het adviesbezoek:",
		Subtitle:         "Jaloezieën, Zonwering & Gordijnen",
		QuotationNoLabel: "Offerte No",
		Title:            "OFFERTE",
	},
	LangPapiamento: {
		Terms:            "• Valididat di e oferta: 30 dia kalender.\n• E kosto total ta inkluí belasting, importashon, materialnan/produktonan i instalashon.\n• Kondishonnan di pago: 50% pago adelantá, 50% ora di entrega.",
		Intro:            "E oferta aki ta inkluí e benta i instalashon di e kortinanan akordá durante e bishita di asesoría:",
		Subtitle:         "Persiana, Kortina & Zonwering",
		QuotationNoLabel: "Oferta No",
		Title:            "OFERTA",
	},
}

var labelSets = map[string]Labels{
	LangSpanish: {
		Date: "Fecha de Emisión", Client: "Cliente", Subtotal: "SUBTOTAL", SubtotalNet: "Subtotal Neto",
		Discount: "Descuento", Total: "Total a Pagar", Conditions: "Condiciones Comerciales",
		PaymentAccount: "CUENTA DE PAGO", Observations: "OBSERVACIONES", Attachments: "ANEXOS",
		Description: "DESCRIPCIÓN", Quantity: "CANT", UnitPrice: "UNITARIO", ItemTotal: "TOTAL",
		General: "GENERAL", Floor: "PISO",
	},
	LangEnglish: {
		Date: "Date of Issue", Client: "Client", Subtotal: "SUBTOTAL", SubtotalNet: "Net Subtotal",
		Discount: "Discount", Total: "Total Payable", Conditions: "Commercial Conditions",
		PaymentAccount: "PAYMENT ACCOUNT", Observations: "OBSERVATIONS", Attachments: "ATTACHMENTS",
		Description: "DESCRIPTION", Quantity: "QTY", UnitPrice: "UNIT PRICE", ItemTotal: "TOTAL",
		General: "GENERAL", Floor: "FLOOR",
	},
	LangDutch: {
		Date: "Datum van Uitgifte", Client: "Klant", Subtotal: "SUBTOTAAL", SubtotalNet: "Netto Subtotaal",
		Discount: "Korting", Total: "Totaal te Betalen", Conditions: "Handelsvoorwaarden",
		PaymentAccount: "BETAALREKENING", Observations: "OPMERKINGEN", Attachments: "BIJLAGEN",
		Description: "OMSCHRIJVING", Quantity: "AANTAL", UnitPrice: "EENHEDSPRIJS", ItemTotal: "TOTAAL",
		General: "ALGEMEEN", Floor: "VERDIEPING",
	},
	LangPapiamento: {
		Date: "Fecha di Emishon", Client: "Kliente", Subtotal: "SUBTOTAL", SubtotalNet: "Subtotal Neto",
		Discount: "Deskuento", Total: "Total pa Paga", Conditions: "Kondishonnan Komersial",
		PaymentAccount: "KUENTA DI PAGO", Observations: "OBSERVACIONNAN", Attachments: "ANEKSONAN",
		Description: "DESKRIPSHON", Quantity: "KANTIDAT", UnitPrice: "PREIS UNIDAT", ItemTotal: "TOTAL",
		General: "GENERAL", Floor: "PISO",
	},
}

// BundleFor returns the text bundle of a language and whether it is known
func BundleFor(lang string) (TextBundle, bool) {
	b, ok := textBundles[lang]
	return b, ok
}

// LabelsFor returns document captions, falling back to Spanish
func LabelsFor(lang string) Labels {
	if l, ok := labelSets[lang]; ok {
		return l
	}
	return labelSets[DefaultLanguage]
}

// ZonePrefixes lists the prefixes offered when creating a zone:
// the general literal followed by floors 0 to 15
func ZonePrefixes(lang string) []string {
	l := LabelsFor(lang)
	opts := []string{l.General}
	for i := 0; i <= 15; i++ {
		opts = append(opts, l.Floor+" "+strconv.Itoa(i))
	}
	return opts
}
