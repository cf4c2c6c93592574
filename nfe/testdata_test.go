package nfe

const sampleInvoice = `<?xml version="1.0" encoding="UTF-8"?>
<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe" versao="4.00">
  <NFe>
    <infNFe Id="NFe35240111111111000100550010000001231000001234" versao="4.00">
      <ide>
        <nNF>123</nNF>
      </ide>
      <emit>
        <CNPJ>11111111000100</CNPJ>
        <xNome>ACME</xNome>
      </emit>
      <dest>
        <CNPJ>22222222000100</CNPJ>
        <xNome>Cliente Exemplo LTDA</xNome>
      </dest>
      <det nItem="1">
        <prod>
          <cProd>P-001</cProd>
          <xProd>Parafuso sextavado</xProd>
          <uCom>UN</uCom>
          <qCom>10.0000</qCom>
          <vUnCom>1.5000000000</vUnCom>
          <vProd>15.00</vProd>
        </prod>
      </det>
      <det nItem="2">
        <prod>
          <cProd>P-002</cProd>
          <xProd>Porca M8</xProd>
          <uCom>CX</uCom>
          <qCom>2.0000</qCom>
          <vUnCom>12.2500000000</vUnCom>
          <vProd>24.50</vProd>
        </prod>
      </det>
      <total>
        <ICMSTot>
          <vProd>39.50</vProd>
          <vNF>39.50</vNF>
        </ICMSTot>
      </total>
      <infAdic xmlns:ext="urn:example:ext">
        <ext:note>kept</ext:note>
      </infAdic>
    </infNFe>
  </NFe>
</nfeProc>`

const headerOnlyInvoice = `<NFe xmlns="http://www.portalfiscal.inf.br/nfe"><infNFe><ide><nNF>000042</nNF></ide></infNFe></NFe>`
