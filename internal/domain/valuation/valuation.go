// Package valuation implementa la aritmética del costo promedio ponderado
// (servicio de dominio, sin efectos).
//
// Política de redondeo: los cálculos intermedios conservan la precisión
// completa del decimal; el redondeo half-up a 2 decimales se aplica una sola
// vez, en la frontera de salida (RoundMoney). Nunca se redondea un promedio
// antes de multiplicarlo.
package valuation

import "github.com/shopspring/decimal"

// moneyPlaces decimales de los montos monetarios en salidas.
const moneyPlaces = 2

// RoundMoney redondea half-up a 2 decimales. Usar solo al retornar montos.
func RoundMoney(v decimal.Decimal) decimal.Decimal {
	return v.Round(moneyPlaces)
}

// AverageCost costo promedio = valor / cantidad si la cantidad es positiva;
// 0 en otro caso (sin stock o stock negativo no tienen costo promedio).
func AverageCost(quantity, value decimal.Decimal) decimal.Decimal {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return value.Div(quantity)
}

// NextAverageCost costo promedio resultante tras una entrada:
// ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada).
func NextAverageCost(currentQty, currentCost, inQty, inCost decimal.Decimal) decimal.Decimal {
	sum := currentQty.Add(inQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := currentQty.Mul(currentCost).Add(inQty.Mul(inCost))
	return num.Div(sum)
}

// CostOfGoodsSold costo de la mercancía vendida para una salida de qty unidades
// al costo promedio dado, redondeado en la frontera.
func CostOfGoodsSold(averageCost, qty decimal.Decimal) decimal.Decimal {
	return RoundMoney(averageCost.Mul(qty))
}
