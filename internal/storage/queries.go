package storage

// The catalog is a fixed set of read-only analytical queries. Ranking ties on
// total_pago are broken by provider name ascending so results are stable
// across runs; the view itself carries no secondary order.

const queryDistinctReferenceMonths = `
SELECT DISTINCT mes_referencia::date
FROM vw_top_prestadores
ORDER BY mes_referencia::date DESC`

const queryTopProvidersForMonth = `
SELECT mes_referencia::date, prestador, total_pago
FROM vw_top_prestadores
WHERE mes_referencia = $1
ORDER BY total_pago DESC, prestador ASC
LIMIT $2`

const queryTotalExcludingProvider = `
WITH ranking AS (
    SELECT prestador, total_pago
    FROM vw_top_prestadores
    WHERE mes_referencia = $1
    ORDER BY total_pago DESC, prestador ASC
    LIMIT $2
)
SELECT COALESCE(SUM(total_pago), 0)
FROM ranking
WHERE prestador <> $3`

const queryMonthlyCategoryTotals = `
SELECT date_trunc('month', data_pagamento)::date AS mes,
       COALESCE(categoria, 'Sem categoria')      AS categoria,
       SUM(ABS(valor))                           AS total_pago
FROM pagamentos
WHERE data_pagamento IS NOT NULL
GROUP BY 1, 2
ORDER BY 1, 2`

const queryYearOverYearByCategory = `
WITH base AS (
    SELECT date_trunc('month', data_pagamento)::date AS mes,
           EXTRACT(YEAR FROM data_pagamento)::int    AS ano,
           EXTRACT(MONTH FROM data_pagamento)::int   AS mes_num,
           COALESCE(categoria, 'Sem categoria')      AS categoria,
           SUM(ABS(valor))                           AS total_pago
    FROM pagamentos
    WHERE data_pagamento IS NOT NULL
    GROUP BY 1, 2, 3, 4
)
SELECT atual.mes,
       atual.ano,
       atual.mes_num,
       atual.categoria,
       atual.total_pago    AS total_atual,
       anterior.total_pago AS total_anterior
FROM base AS atual
LEFT JOIN base AS anterior
       ON anterior.mes_num = atual.mes_num
      AND anterior.categoria = atual.categoria
      AND anterior.ano = atual.ano - 1
ORDER BY atual.mes, atual.categoria`
