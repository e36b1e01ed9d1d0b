package catalog

// productFields is the remote product subset the gateway depends on. Custom
// attributes live in metafields under the "custom" namespace.
const productFields = `
fragment ProductFields on Product {
  id
  title
  handle
  description
  images(first: 1) {
    nodes {
      url
      altText
    }
  }
  priceRange {
    minVariantPrice {
      amount
      currencyCode
    }
  }
  variants(first: 10) {
    nodes {
      id
      title
      price {
        amount
        currencyCode
      }
    }
  }
  ingredients: metafield(namespace: "custom", key: "ingredients") { value }
  usage: metafield(namespace: "custom", key: "usage") { value }
  storage: metafield(namespace: "custom", key: "storage") { value }
  packaging: metafield(namespace: "custom", key: "packaging") { value }
  skinType: metafield(namespace: "custom", key: "skin_type") { value }
  badge: metafield(namespace: "custom", key: "badge") { value }
  weight: metafield(namespace: "custom", key: "weight") { value }
  volume: metafield(namespace: "custom", key: "volume") { value }
  category: metafield(namespace: "custom", key: "category") { value }
}`

const listProductsQuery = productFields + `
query GetProducts($query: String) {
  products(first: 20, query: $query) {
    nodes {
      ...ProductFields
    }
  }
}`

const productByIDQuery = productFields + `
query GetProduct($id: ID!) {
  product(id: $id) {
    ...ProductFields
  }
}`

const productByHandleQuery = productFields + `
query GetProductByHandle($handle: String!) {
  productByHandle(handle: $handle) {
    ...ProductFields
  }
}`

const searchProductsQuery = productFields + `
query SearchProducts($query: String!) {
  products(first: 5, query: $query) {
    nodes {
      ...ProductFields
    }
  }
}`
