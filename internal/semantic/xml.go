package semantic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

// CII namespaces, EN 16931 guideline.
const (
	nsRSM = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	nsRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	nsUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"

	guidelineEN16931 = "urn:cen.eu:en16931:2017"
)

// XML serializes the trade invoice as a Cross-Industry Invoice document.
func (ti *TradeInvoice) XML() (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", nsRSM)
	root.CreateAttr("xmlns:ram", nsRAM)
	root.CreateAttr("xmlns:udt", nsUDT)

	ctx := root.CreateElement("rsm:ExchangedDocumentContext")
	ctx.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter").
		CreateElement("ram:ID").SetText(guidelineEN16931)

	exDoc := root.CreateElement("rsm:ExchangedDocument")
	exDoc.CreateElement("ram:ID").SetText(ti.Number)
	exDoc.CreateElement("ram:TypeCode").SetText(ti.TypeCode)
	dateTime(exDoc.CreateElement("ram:IssueDateTime"), ti.IssueDate)
	if ti.Note != "" {
		exDoc.CreateElement("ram:IncludedNote").
			CreateElement("ram:Content").SetText(ti.Note)
	}

	txn := root.CreateElement("rsm:SupplyChainTradeTransaction")

	for _, line := range ti.Lines {
		appendLine(txn, line)
	}

	agreement := txn.CreateElement("ram:ApplicableHeaderTradeAgreement")
	appendParty(agreement.CreateElement("ram:SellerTradeParty"), ti.Seller)
	appendParty(agreement.CreateElement("ram:BuyerTradeParty"), ti.Buyer)

	// Required by the profile; empty when nothing was delivered separately.
	txn.CreateElement("ram:ApplicableHeaderTradeDelivery")

	settlement := txn.CreateElement("ram:ApplicableHeaderTradeSettlement")
	settlement.CreateElement("ram:InvoiceCurrencyCode").SetText(ti.Currency)

	if ti.PaymentIBAN != "" {
		means := settlement.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
		means.CreateElement("ram:TypeCode").SetText("58") // SEPA credit transfer
		means.CreateElement("ram:PayeePartyCreditorFinancialAccount").
			CreateElement("ram:IBANID").SetText(ti.PaymentIBAN)
	}

	tax := settlement.CreateElement("ram:ApplicableTradeTax")
	tax.CreateElement("ram:CalculatedAmount").SetText(amount(ti.TaxCalculated))
	tax.CreateElement("ram:TypeCode").SetText("VAT")
	tax.CreateElement("ram:BasisAmount").SetText(amount(ti.TaxBasis))
	tax.CreateElement("ram:CategoryCode").SetText(ti.TaxCategory)
	tax.CreateElement("ram:RateApplicablePercent").SetText(rate(ti.TaxRate))

	if ti.DueDate != "" {
		terms := settlement.CreateElement("ram:SpecifiedTradePaymentTerms")
		dateTime(terms.CreateElement("ram:DueDateDateTime"), ti.DueDate)
	}

	sum := settlement.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	sum.CreateElement("ram:LineTotalAmount").SetText(amount(ti.LineTotal))
	sum.CreateElement("ram:TaxBasisTotalAmount").SetText(amount(ti.TaxBasisTotal))
	taxTotal := sum.CreateElement("ram:TaxTotalAmount")
	taxTotal.CreateAttr("currencyID", ti.Currency)
	taxTotal.SetText(amount(ti.TaxTotal))
	sum.CreateElement("ram:GrandTotalAmount").SetText(amount(ti.GrandTotal))
	sum.CreateElement("ram:DuePayableAmount").SetText(amount(ti.DuePayable))

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("semantic: serializing invoice %s: %w", ti.Number, err)
	}
	return out, nil
}

func appendLine(txn *etree.Element, line TradeLine) {
	item := txn.CreateElement("ram:IncludedSupplyChainTradeLineItem")

	item.CreateElement("ram:AssociatedDocumentLineDocument").
		CreateElement("ram:LineID").SetText(line.ID)

	item.CreateElement("ram:SpecifiedTradeProduct").
		CreateElement("ram:Name").SetText(line.Name)

	price := item.CreateElement("ram:SpecifiedLineTradeAgreement").
		CreateElement("ram:NetPriceProductTradePrice")
	price.CreateElement("ram:ChargeAmount").SetText(amount(line.Total))
	basis := price.CreateElement("ram:BasisQuantity")
	basis.CreateAttr("unitCode", line.UnitCode)
	basis.SetText(quantity(line.Quantity))

	billed := item.CreateElement("ram:SpecifiedLineTradeDelivery").
		CreateElement("ram:BilledQuantity")
	billed.CreateAttr("unitCode", line.UnitCode)
	billed.SetText(quantity(line.Quantity))

	settlement := item.CreateElement("ram:SpecifiedLineTradeSettlement")
	tax := settlement.CreateElement("ram:ApplicableTradeTax")
	tax.CreateElement("ram:TypeCode").SetText("VAT")
	tax.CreateElement("ram:CategoryCode").SetText("S")
	tax.CreateElement("ram:RateApplicablePercent").SetText(rate(line.TaxRate))
	settlement.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation").
		CreateElement("ram:LineTotalAmount").SetText(amount(line.Total))
}

func appendParty(el *etree.Element, p TradeParty) {
	el.CreateElement("ram:Name").SetText(p.Name)

	addr := el.CreateElement("ram:PostalTradeAddress")
	addr.CreateElement("ram:PostcodeCode").SetText(p.Postcode)
	addr.CreateElement("ram:LineOne").SetText(p.LineOne)
	addr.CreateElement("ram:CityName").SetText(p.City)
	addr.CreateElement("ram:CountryID").SetText(p.CountryID)

	if p.TaxNumber != "" {
		reg := el.CreateElement("ram:SpecifiedTaxRegistration").CreateElement("ram:ID")
		reg.CreateAttr("schemeID", "FC")
		reg.SetText(p.TaxNumber)
	}
	if p.VATID != "" {
		reg := el.CreateElement("ram:SpecifiedTaxRegistration").CreateElement("ram:ID")
		reg.CreateAttr("schemeID", "VA")
		reg.SetText(p.VATID)
	}
}

// dateTime appends a udt:DateTimeString in CII format 102 (yyyymmdd).
func dateTime(el *etree.Element, isoDate string) {
	dt := el.CreateElement("udt:DateTimeString")
	dt.CreateAttr("format", "102")
	dt.SetText(strings.ReplaceAll(isoDate, "-", ""))
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func quantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func rate(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
