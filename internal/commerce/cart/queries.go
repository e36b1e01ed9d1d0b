package cart

// cartFields is the full cart shape requested after every read and
// mutation. Mutations deliberately ask for the same shape as reads so the
// authoritative replacement path is uniform.
const cartFields = `
fragment CartFields on Cart {
  id
  checkoutUrl
  lines(first: 50) {
    nodes {
      id
      quantity
      merchandise {
        ... on ProductVariant {
          id
          title
          price {
            amount
            currencyCode
          }
          product {
            id
            title
            handle
            images(first: 1) {
              nodes {
                url
              }
            }
          }
        }
      }
    }
  }
}`

const cartQuery = cartFields + `
query GetCart($cartId: ID!) {
  cart(id: $cartId) {
    ...CartFields
  }
}`

const cartCreateMutation = cartFields + `
mutation CartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart {
      ...CartFields
    }
    userErrors {
      message
    }
  }
}`

const cartLinesAddMutation = cartFields + `
mutation CartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFields
    }
    userErrors {
      message
    }
  }
}`

const cartLinesUpdateMutation = cartFields + `
mutation CartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFields
    }
    userErrors {
      message
    }
  }
}`

const cartLinesRemoveMutation = cartFields + `
mutation CartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      ...CartFields
    }
    userErrors {
      message
    }
  }
}`

const cartBuyerIdentityUpdateMutation = cartFields + `
mutation CartBuyerIdentityUpdate($cartId: ID!, $buyerIdentity: CartBuyerIdentityInput!) {
  cartBuyerIdentityUpdate(cartId: $cartId, buyerIdentity: $buyerIdentity) {
    cart {
      ...CartFields
    }
    userErrors {
      message
    }
  }
}`
